package models

// MultiSignaturePayload is an unsigned call for a multisig wallet to propose.
type MultiSignaturePayload struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type EncodeStreamRequest struct {
	Token     string `json:"token" validate:"required,eth_addr"`
	Recipient string `json:"recipient" validate:"required,eth_addr"`
	Amount    string `json:"amount" validate:"required"`
	Duration  string `json:"duration" validate:"required"`
}
