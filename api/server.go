package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchform/config"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/services/search"
	"github.com/meghashyamc/searchform/ui"
	"github.com/meghashyamc/searchform/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	secrets    secrets.Store
	vault      *secrets.BoltStore
	searcher   *search.Service
	templates  *template.Template
	static     fs.FS
	logger     logger.Logger
}

// Run serves the search forms until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	defer s.closeDependencies()

	s.setupRouter()
	listenErrC := s.setupHTTPServer()

	return s.waitForShutdown(ctx, listenErrC)
}

func (s *server) setupDependencies() error {
	var err error
	s.secrets, s.vault, err = secrets.Open(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error opening secrets", "err", err.Error())
		return err
	}
	validator, err := validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}
	s.searcher = search.New(s.logger, validator, search.NewHTTPClient(s.cfg.GetHTTPTimeout()))

	s.templates, err = ui.Templates()
	if err != nil {
		s.logger.Error("error parsing templates", "err", err.Error())
		return err
	}
	s.static, err = ui.Static()
	if err != nil {
		s.logger.Error("error loading static files", "err", err.Error())
		return err
	}

	return nil

}

func (s *server) closeDependencies() {
	if s.vault == nil {
		return
	}
	if err := s.vault.Close(); err != nil {
		s.logger.Error("error closing secrets vault", "err", err.Error())
	}
}

func (s *server) setupRouter() {
	if s.cfg.GetEnv() != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.searcher, s.secrets, s.cfg, s.templates, s.static)

	s.router = router
}

func (s *server) setupHTTPServer() <-chan error {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer

	listenErrC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrC <- fmt.Errorf("listen: %w", err)
		}
		close(listenErrC)
	}()

	return listenErrC
}

func (s *server) waitForShutdown(ctx context.Context, listenErrC <-chan error) error {

	select {
	case err, ok := <-listenErrC:
		if ok && err != nil {
			s.logger.Error("http server stopped", "err", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
