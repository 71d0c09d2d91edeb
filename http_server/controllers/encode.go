package controllers

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/thedevsaddam/govalidator"
	"github.com/voyage-finance/llamapay-cli/models"
	"github.com/voyage-finance/llamapay-cli/service"
	"net/http"
)

const addressRule = "regex:^0x[0-9a-fA-F]{40}$"

// GetEncodedApproveDepositCreateStream returns the approve, deposit and
// createStream payloads for a multisig to fund and open a stream.
func GetEncodedApproveDepositCreateStream(s *service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req models.EncodeStreamRequest
		rules := govalidator.MapData{
			"token":     []string{"required", addressRule},
			"recipient": []string{"required", addressRule},
			"amount":    []string{"required"},
			"duration":  []string{"required"},
		}
		opts := govalidator.Options{
			Request: r,
			Data:    &req,
			Rules:   rules,
		}
		// 1.0 if body of request is not valid
		if e := govalidator.New(opts).ValidateJSON(); len(e) != 0 {
			ReturnHttpJSON(rw, http.StatusBadRequest, map[string]interface{}{"validationError": e})
			return
		}

		// 2.0 encode
		payloads, err := s.Factory(nil, common.Address{}).EncodeStreamPayloads(r.Context(), s.Handlers, &req)
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}
		ReturnHttpJSON(rw, http.StatusOK, payloads)
	}
}
