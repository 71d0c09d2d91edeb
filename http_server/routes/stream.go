package routes

import (
	"github.com/gorilla/mux"
	"github.com/voyage-finance/llamapay-cli/http_server/controllers"
	"github.com/voyage-finance/llamapay-cli/service"
)

func StreamRoute(router *mux.Router, s *service.Service) {
	router.HandleFunc("/streams/{streamId}", controllers.GetStream(s)).Methods("GET")
	router.HandleFunc("/streams/{streamId}/withdrawable", controllers.GetWithdrawable(s)).Methods("GET")
	router.HandleFunc("/users/{address}/streams", controllers.GetUserStreams(s)).Methods("GET")
}

func TokenRoute(router *mux.Router, s *service.Service) {
	router.HandleFunc("/tokens", controllers.GetTokens(s)).Methods("GET")
}

func EncodeRoute(router *mux.Router, s *service.Service) {
	router.HandleFunc("/encode/stream", controllers.GetEncodedApproveDepositCreateStream(s)).Methods("POST")
}
