// Package server exposes the mass engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/report"
	"github.com/alexiusacademia/gorebar/internal/selection"
	"github.com/alexiusacademia/gorebar/internal/version"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// maxBody bounds the size of a selection posted to the API.
const maxBody = 8 << 20

// ErrorOutput is the body of every error response.
type ErrorOutput struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Handler serves the API for one configuration.
type Handler struct {
	Config config.Config
	Logger *slog.Logger
}

// NewRouter builds the API routes with rate limiting and, when a token key
// is configured, bearer authentication on the compute endpoint.
func NewRouter(cfg config.Config, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{Config: cfg, Logger: logger}

	r := mux.NewRouter()
	limiter := NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.Burst)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	var cog http.Handler = http.HandlerFunc(h.CoG)
	if cfg.Server.TokenKey != "" {
		cog = NewAuth([]byte(cfg.Server.TokenKey)).Middleware(cog)
	}
	api.Handle("/cog", cog).Methods(http.MethodPost)

	return r
}

// Health reports liveness and the running version.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

// CoG computes the center of gravity of the selection in the request body.
func (h *Handler) CoG(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sel, err := selection.Parse(body, selection.FormatJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	system, err := h.Config.SystemFor(sel.Unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rebars, err := sel.Bars()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Config.Engine(system).Compute(rebars)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, dropped := sel.Filter()
	out := report.NewOutput(res, system, h.Config.Precision)
	out.Name = sel.Name
	out.Dropped = dropped

	h.Logger.Info("cog computed", "remote", r.RemoteAddr, "subject", Subject(r.Context()), "rebars", len(rebars), "mass", out.MassRounded)
	writeJSON(w, http.StatusOK, out)
}

// fail maps computation errors to 422 and anything else to 400.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusUnprocessableEntity
	var ve *selection.ValidationError
	if mass.Kind(err) == "" || errors.As(err, &ve) {
		status = http.StatusBadRequest
	}
	h.Logger.Warn("cog failed", "remote", r.RemoteAddr, "err", err)
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorOutput{Error: err.Error(), Kind: mass.Kind(err)})
}
