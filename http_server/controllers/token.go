package controllers

import (
	"github.com/voyage-finance/llamapay-cli/service"
	"net/http"
)

func GetTokens(s *service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		tokens, err := s.Graph().GetAllTokens(r.Context())
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}
		ReturnHttpJSON(rw, http.StatusOK, tokens)
	}
}
