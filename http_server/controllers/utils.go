package controllers

import (
	"encoding/json"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"go.uber.org/zap"
	"net/http"
)

type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func ReturnHttpJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		logging.Logger.Error("ReturnHttpJSON error", zap.Error(err))
	}
}

func ReturnHttpBadResponse(rw http.ResponseWriter, response string) {
	ReturnHttpJSON(rw, http.StatusBadRequest, ErrorResponse{Kind: errs.KindValidation.String(), Error: response})
}

// ReturnHttpError maps the error kind to a status code.
func ReturnHttpError(rw http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindExistenceConflict:
		status = http.StatusConflict
	case errs.KindQuery:
		status = http.StatusBadGateway
	}
	logging.Logger.Warn("request failed", zap.Stringer("kind", kind), zap.Error(err))
	ReturnHttpJSON(rw, status, ErrorResponse{Kind: kind.String(), Error: err.Error()})
}
