package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"telescrape/internal/constants"
	apperrors "telescrape/internal/errors"
	"telescrape/internal/middleware"
	"telescrape/internal/models"
	"telescrape/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router         *mux.Router
	logger         *logrus.Logger
	scraper        service.Scraper
	reports        service.ReportGenerator
	orchestrator   service.Orchestrator
	channelManager *service.ChannelManager
	cfg            *models.Config
	server         *http.Server
}

func NewServer(cfg *models.Config, scraper service.Scraper, reports service.ReportGenerator, orchestrator service.Orchestrator, channelManager *service.ChannelManager, logger *logrus.Logger) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		logger:         logger,
		scraper:        scraper,
		reports:        reports,
		orchestrator:   orchestrator,
		channelManager: channelManager,
		cfg:            cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.ObservabilityMiddleware(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scrape", s.handleScrape()).Methods(http.MethodPost)
	api.HandleFunc("/report", s.handleReport()).Methods(http.MethodGet)
	api.HandleFunc("/cycle", s.handleCycle()).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  constants.DefaultServerReadTimeoutSec * time.Second,
		WriteTimeout: constants.DefaultServerWriteTimeoutSec * time.Second,
		IdleTimeout:  constants.DefaultServerIdleTimeoutSec * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler implementations

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.WithError(err).Warn("Failed to write health response")
		}
	}
}

type scrapeRequest struct {
	Channel string `json:"channel"`
}

type scrapeResponse struct {
	Channel string `json:"channel"`
	Cursor  int64  `json:"cursor"`
}

func (s *Server) handleScrape() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperrors.NewValidationError("body", "invalid JSON payload"))
			return
		}

		if req.Channel == "" {
			s.writeError(w, apperrors.NewValidationError("channel", "channel is required"))
			return
		}
		if !s.channelManager.IsValidChannel(req.Channel) {
			s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "channel is not configured").
				WithUserMessage(fmt.Sprintf("Channel %q is not configured", req.Channel)))
			return
		}

		cursor, err := s.scraper.ScrapeChannel(r.Context(), req.Channel)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, scrapeResponse{Channel: req.Channel, Cursor: cursor})
	}
}

func (s *Server) handleReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := r.URL.Query().Get("channel")
		if channel == "" {
			s.writeError(w, apperrors.NewValidationError("channel", "channel query parameter is required"))
			return
		}
		if !s.channelManager.IsValidChannel(channel) {
			s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "channel is not configured").
				WithUserMessage(fmt.Sprintf("Channel %q is not configured", channel)))
			return
		}

		var report string
		var err error
		if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
			since, parseErr := time.Parse("2006-01-02", sinceParam)
			if parseErr != nil {
				s.writeError(w, apperrors.NewValidationError("since", "expected YYYY-MM-DD"))
				return
			}
			report, err = s.reports.GenerateReport(r.Context(), channel, since)
		} else {
			report, err = s.reports.GenerateDailyReport(r.Context(), channel)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(report)); err != nil {
			s.logger.WithError(err).Warn("Failed to write report response")
		}
	}
}

func (s *Server) handleCycle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := s.orchestrator.RunCycle(r.Context(), s.channelManager.Channels())
		s.writeJSON(w, http.StatusOK, results)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)

	if status >= 500 {
		s.logger.WithError(err).Error("Request failed")
	} else {
		s.logger.WithError(err).Warn("Request rejected")
	}

	s.writeJSON(w, status, map[string]string{
		"error": apperrors.GetUserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}
