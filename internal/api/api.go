// Package api exposes the audit report and inline remediation endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/captioner"
	"github.com/siteops/siteaudit/internal/media"
	"github.com/siteops/siteaudit/internal/store"
)

// Server provides the REST API handlers.
type Server struct {
	store    store.Store
	auditor  *audit.Auditor
	probe    *media.Probe
	captions *captioner.Client
	log      *slog.Logger
}

// NewServer creates a new API server. The captioner may be nil when no API
// key is configured; the suggestions endpoint then reports 503.
func NewServer(s store.Store, a *audit.Auditor, p *media.Probe, c *captioner.Client, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store:    s,
		auditor:  a,
		probe:    p,
		captions: c,
		log:      log,
	}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/report", s.getReport)
	mux.HandleFunc("GET /api/v1/categories", s.getCategories)

	mux.HandleFunc("GET /api/v1/settings/{key}", s.getSetting)
	mux.HandleFunc("PUT /api/v1/settings/{key}", s.putSetting)

	mux.HandleFunc("PUT /api/v1/images/{id}/alt", s.putAltText)
	mux.HandleFunc("GET /api/v1/images/{id}/status", s.getImageStatus)
	mux.HandleFunc("POST /api/v1/images/{id}/alt/suggestions", s.suggestAltText)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Report ---

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.auditor.RunAll(r.Context())
	if err != nil {
		s.log.Error("audit run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "audit run failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.auditor.Categories())
}

// --- Settings (inline edit) ---

func (s *Server) getSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, err := s.store.GetOption(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.SetOption(r.Context(), key, req.Value); err != nil {
		s.log.Error("setting update failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// --- Images ---

func (s *Server) putAltText(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		AltText string `json:"alt_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if media.SanitizeAltText(req.AltText) == "" {
		writeError(w, http.StatusBadRequest, "alternative text cannot be empty")
		return
	}

	if err := s.probe.SetAltText(r.Context(), id, req.AltText); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		s.log.Error("alt text update failed", "image", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update alt text")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) getImageStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := s.auditor.EvaluateImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check image")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) suggestAltText(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	img, err := s.store.GetAttachment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load image")
		return
	}

	data, err := os.ReadFile(img.FilePath)
	if err != nil {
		writeError(w, http.StatusNotFound, "image file not readable")
		return
	}

	options, err := s.captions.Suggest(r.Context(), data, img.MimeType)
	if err != nil {
		var transport *captioner.TransportError
		switch {
		case errors.Is(err, captioner.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "captioning service is not configured")
		case errors.As(err, &transport):
			s.log.Error("captioning transport failure", "image", id, "error", err)
			writeError(w, http.StatusBadGateway, "captioning service unreachable")
		default:
			s.log.Error("captioning failed", "image", id, "error", err)
			writeError(w, http.StatusBadGateway, "captioning service returned an invalid response")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"options": options})
}
