package http_server

import (
	"context"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/voyage-finance/llamapay-cli/http_server/controllers"
	"github.com/voyage-finance/llamapay-cli/http_server/routes"
	"github.com/voyage-finance/llamapay-cli/logging"
	"github.com/voyage-finance/llamapay-cli/service"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router *mux.Router
}

func NewServer(s *service.Service) *Server {
	// creates a new instance of a mux router
	router := mux.NewRouter().StrictSlash(true)
	routes.StreamRoute(router, s)
	routes.TokenRoute(router, s)
	routes.EncodeRoute(router, s)
	router.NotFoundHandler = http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		controllers.ReturnHttpJSON(rw, http.StatusNotFound, controllers.ErrorResponse{Kind: "NotFound", Error: r.URL.Path})
	})
	return &Server{router: router}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Info("llamapay server is running", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	return nil
}
