package api

import (
	"context"
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/dispatcher"
	"github.com/ykhdr/hashcrack/internal/hashcrack"
	"github.com/ykhdr/hashcrack/internal/http/middleware"
	"github.com/ykhdr/hashcrack/internal/job"
	"github.com/ykhdr/hashcrack/internal/jobstore"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"net"
	"net/http"
	"time"
)

const maxBodySize = 16 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, req *messages.CrackRequest) (job.Id, error)
}

type Server struct {
	l                 zerolog.Logger
	addr              string
	dispatcher        Dispatcher
	store             jobstore.Store
	registrar         consul.Registrar
	workerServiceName string
}

type Option func(*Server)

// WithWorkers exposes the healthy queue workers registered in consul under
// serviceName on /api/workers.
func WithWorkers(registrar consul.Registrar, serviceName string) Option {
	return func(s *Server) {
		s.registrar = registrar
		s.workerServiceName = serviceName
	}
}

func NewServer(addr string, dispatcher Dispatcher, store jobstore.Store, opts ...Option) *Server {
	s := &Server{
		addr:       addr,
		dispatcher: dispatcher,
		store:      store,
		l: log.With().
			Str("domain", "api-server").
			Str("type", "http").
			Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(s.l))
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	jsonRouter := router.PathPrefix("/api").Subrouter()
	jsonRouter.Use(middleware.ApplicationJsonContentTypeMiddleware())
	jsonRouter.HandleFunc("/hash/crack", s.handleHashCrack).Methods(http.MethodPost)
	jsonRouter.HandleFunc("/hash/status", s.handleHashStatus).Methods(http.MethodGet)
	if s.registrar != nil {
		jsonRouter.HandleFunc("/workers", s.handleWorkers).Methods(http.MethodGet)
	}
	return router
}

// Start serves the API until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.l.Info().Str("address", s.addr).Msg("api server is running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "api server failed")
	}
	return nil
}

func (s *Server) handleHashCrack(w http.ResponseWriter, r *http.Request) {
	var req messages.CrackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.dispatcher.Dispatch(r.Context(), &req)
	switch {
	case errors.Is(err, hashcrack.ErrInvalidRequest):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, dispatcher.ErrQueueFull):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.l.Error().Err(err).Msg("failed to dispatch request")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, &messages.CrackResponse{RequestId: string(id)})
}

func (s *Server) handleHashStatus(w http.ResponseWriter, r *http.Request) {
	requestId := r.URL.Query().Get("requestId")
	if requestId == "" {
		s.writeError(w, http.StatusBadRequest, "missing requestId")
		return
	}
	info, err := s.store.Get(r.Context(), job.Id(requestId))
	if errors.Is(err, jobstore.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		s.l.Error().Err(err).Str("request-id", requestId).Msg("failed to load job")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, info.StatusResponse())
}

func (s *Server) handleWorkers(w http.ResponseWriter, _ *http.Request) {
	services, err := s.registrar.Healthy(s.workerServiceName)
	if err != nil {
		s.l.Warn().Err(err).Msg("failed to list workers")
		s.writeError(w, http.StatusBadGateway, "consul is unavailable")
		return
	}
	urls := make([]string, 0, len(services))
	for _, srv := range services {
		urls = append(urls, srv.Url())
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"workers": urls})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.l.Warn().Err(err).Msg("failed to write health response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, &messages.ErrorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Warn().Err(err).Msg("failed to encode response")
	}
}
