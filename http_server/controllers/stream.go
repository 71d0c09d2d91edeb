package controllers

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/voyage-finance/llamapay-cli/models"
	"github.com/voyage-finance/llamapay-cli/service"
	"net/http"
	"regexp"
)

var streamIDPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

func GetStream(s *service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		streamID := mux.Vars(r)["streamId"]
		streams, ok := lookupStreams(rw, r, s, streamID)
		if !ok {
			return
		}
		ReturnHttpJSON(rw, http.StatusOK, streams)
	}
}

func GetUserStreams(s *service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		address := mux.Vars(r)["address"]
		if !common.IsHexAddress(address) {
			ReturnHttpBadResponse(rw, "Provide correct user address in format 0x")
			return
		}
		user, err := s.Graph().GetStreamAndHistoryByUserAddress(r.Context(), address)
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}
		ReturnHttpJSON(rw, http.StatusOK, user)
	}
}

// GetWithdrawable reads the first matching stream's withdrawable and owed
// amounts from its LlamaPay contract.
func GetWithdrawable(s *service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		streams, ok := lookupStreams(rw, r, s, mux.Vars(r)["streamId"])
		if !ok {
			return
		}
		stream := streams[0]
		rate, err := stream.Rate()
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}

		factory := s.Factory(nil, common.Address{})
		details, err := factory.GetLlamaPayContractDetailsByToken(r.Context(), common.HexToAddress(stream.Token.Address))
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}
		info, err := factory.LlamaPayServiceAt(details.PredictedAddress).GetWithdrawable(r.Context(),
			common.HexToAddress(stream.Payer.ID), common.HexToAddress(stream.Payee.ID), rate)
		if err != nil {
			ReturnHttpError(rw, err)
			return
		}
		ReturnHttpJSON(rw, http.StatusOK, info)
	}
}

func lookupStreams(rw http.ResponseWriter, r *http.Request, s *service.Service, streamID string) ([]models.Stream, bool) {
	if !streamIDPattern.MatchString(streamID) {
		ReturnHttpBadResponse(rw, "Provide correct stream id in format 0x")
		return nil, false
	}
	streams, err := s.Graph().GetStreamInfoByStreamID(r.Context(), streamID)
	if err != nil {
		ReturnHttpError(rw, err)
		return nil, false
	}
	if len(streams) == 0 {
		ReturnHttpJSON(rw, http.StatusNotFound, ErrorResponse{Kind: "NotFound", Error: "No stream found for stream id " + streamID})
		return nil, false
	}
	return streams, true
}
