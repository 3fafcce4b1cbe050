package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchdesk/backend"
	"github.com/meghashyamc/searchdesk/config"
	"github.com/meghashyamc/searchdesk/logger"
	"github.com/meghashyamc/searchdesk/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	clients    clients
	validator  *validation.Validator
	logger     logger.Logger
}

// Run serves the console until ctx is cancelled or an interrupt arrives,
// then drains in-flight requests.
func Run(ctx context.Context, cfg *config.Config, logger logger.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger,
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	if err := s.setupRouter(); err != nil {
		return err
	}

	return s.serve(ctx)
}

func (s *server) setupDependencies() error {
	opts := []backend.Option{backend.WithTimeout(s.cfg.GetBackendTimeout())}
	backendURL := s.cfg.GetBackendURL()

	searchClient := backend.NewSearchClient(backendURL, s.logger, opts...)
	s.clients = clients{
		search:    searchClient,
		stats:     searchClient,
		documents: backend.NewDocumentClient(backendURL, s.logger, opts...),
	}
	s.logger.Info("using search backend", "base_url", backendURL)

	var err error
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil
}

func (s *server) setupRouter() error {
	router, err := newRouter(s.cfg, s.logger)
	if err != nil {
		return err
	}

	setupRoutes(router, s.cfg, s.logger, s.clients, s.validator)

	s.router = router
	return nil
}

func (s *server) serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			s.logger.Error("http server failed", "err", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
