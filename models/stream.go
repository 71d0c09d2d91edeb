package models

import (
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
	"strconv"
	"time"
)

type Account struct {
	ID string `json:"id"`
}

type ContractRef struct {
	Address string `json:"address"`
}

type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
	Contract struct {
		ID string `json:"id"`
	} `json:"contract"`
}

// Stream is a subgraph stream record. Big numbers arrive as decimal strings.
type Stream struct {
	ID               string         `json:"id"`
	StreamID         string         `json:"streamId"`
	Active           bool           `json:"active"`
	Payer            Account        `json:"payer"`
	Payee            Account        `json:"payee"`
	Token            Token          `json:"token"`
	Contract         ContractRef    `json:"contract"`
	AmountPerSec     string         `json:"amountPerSec"`
	CreatedTimestamp string         `json:"createdTimestamp"`
	HistoricalEvents []HistoryEvent `json:"historicalEvents,omitempty"`
}

func (s *Stream) Rate() (*big.Int, error) {
	rate, ok := new(big.Int).SetString(s.AmountPerSec, 10)
	if !ok {
		return nil, errs.Newf(errs.KindQuery, "stream %s has malformed amountPerSec %q", s.StreamID, s.AmountPerSec)
	}
	return rate, nil
}

func (s *Stream) Created() time.Time {
	return unixTime(s.CreatedTimestamp)
}

type HistoryEvent struct {
	EventType        string  `json:"eventType"`
	TxHash           string  `json:"txHash"`
	CreatedTimestamp string  `json:"createdTimestamp"`
	Amount           *string `json:"amount,omitempty"`
	Token            *Token  `json:"token,omitempty"`
}

func (e *HistoryEvent) Created() time.Time {
	return unixTime(e.CreatedTimestamp)
}

// User is a payer or payee with everything the subgraph indexed for it.
type User struct {
	ID               string         `json:"id"`
	Streams          []Stream       `json:"streams"`
	HistoricalEvents []HistoryEvent `json:"historicalEvents"`
}

func unixTime(ts string) time.Time {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
