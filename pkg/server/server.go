package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	publishermiddleware "github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/server/middleware"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Publisher runs one fetch-transform-write cycle.
type Publisher interface {
	Publish(ctx context.Context) (*api.PublishReceipt, error)
}

type Dependencies struct {
	Publisher Publisher
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// WebAPI exposes the publish trigger for schedulers that invoke over HTTP.
type WebAPI struct {
	router    *chi.Mux
	logger    *zerolog.Logger
	server    *http.Server
	publisher Publisher
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	w := &WebAPI{
		logger:    &logger,
		publisher: config.Dependencies.Publisher,
	}

	router := chi.NewRouter()

	router.Use(publishermiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", w.handleHealth)
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/publish", w.handlePublish)
	})

	w.router = router
	w.server = &http.Server{
		Addr:    config.Addr,
		Handler: router,
	}
	return w
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Handler exposes the router for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

func (w *WebAPI) handleHealth(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
}

func (w *WebAPI) handlePublish(rw http.ResponseWriter, req *http.Request) {
	receipt, err := w.publisher.Publish(req.Context())
	if err != nil {
		zerolog.Ctx(req.Context()).Error().Err(err).Msg("publish failed")
		writeJSON(rw, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(rw, http.StatusOK, receipt)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
