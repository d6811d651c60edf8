// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/application"
	"github.com/ericfisherdev/dogdiscoverer/internal/report"
)

// maxHistoryLimit caps the ?limit= query parameter on the history endpoint.
const maxHistoryLimit = 500

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	session *application.SessionService
	breeds  *application.BreedService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	session *application.SessionService,
	breeds *application.BreedService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session: session,
		breeds:  breeds,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/state", h.GetState)
	mux.HandleFunc("POST /api/v1/discover", h.Discover)
	mux.HandleFunc("GET /api/v1/bans", h.ListBans)
	mux.HandleFunc("POST /api/v1/bans", h.AddBan)
	mux.HandleFunc("DELETE /api/v1/bans/{term}", h.RemoveBan)
	mux.HandleFunc("GET /api/v1/history", h.ListHistory)
	mux.HandleFunc("GET /api/v1/history/report", h.HistoryReport)
	mux.HandleFunc("GET /api/v1/breeds", h.ListBreeds)
	mux.HandleFunc("GET /api/v1/breeds/suggest", h.SuggestBreed)
	mux.HandleFunc("GET /api/v1/events", h.Events)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// GetState returns the current display state.
func (h *Handler) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.session.State()))
}

// Discover starts a new discovery and responds once it settles. Not finding a
// dog is reported in the state body, not as an HTTP error.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Discover(r.Context()); err != nil && !errors.Is(err, application.ErrNotFound) {
		h.logger.Error("failed to discover", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(h.session.State()))
}

// ListBans returns the ban list in insertion order.
func (h *Handler) ListBans(w http.ResponseWriter, r *http.Request) {
	terms, err := h.session.Bans(r.Context())
	if err != nil {
		h.logger.Error("failed to list bans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]BanResponse, 0, len(terms))
	for _, t := range terms {
		resp = append(resp, toBanResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddBan adds a term to the ban list. It responds 201 when the term was added
// and 200 when it was already banned.
func (h *Handler) AddBan(w http.ResponseWriter, r *http.Request) {
	var req AddBanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changed, err := h.session.AddBan(r.Context(), req.Term)
	if err != nil {
		if errors.Is(err, application.ErrEmptyTerm) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to add ban", "term", req.Term, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
	}

	writeJSON(w, status, toStateResponse(h.session.State()))
}

// RemoveBan removes a term from the ban list. Removing a term that is not
// banned is a no-op and still responds 204.
func (h *Handler) RemoveBan(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")

	if _, err := h.session.RemoveBan(r.Context(), term); err != nil {
		if errors.Is(err, application.ErrEmptyTerm) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to remove ban", "term", term, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListHistory returns seen dogs newest first. An optional ?limit= caps the
// number of entries.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxHistoryLimit))
			return
		}
		limit = n
	}

	entries, err := h.session.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toHistoryResponse(e))
	}

	writeJSON(w, http.StatusOK, resp)
}

// HistoryReport serves the ban list and full history as a PDF download.
func (h *Handler) HistoryReport(w http.ResponseWriter, r *http.Request) {
	bans, err := h.session.Bans(r.Context())
	if err != nil {
		h.logger.Error("failed to list bans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	entries, err := h.session.History(r.Context(), 0)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pdf, err := report.BuildHistoryReport(bans, entries, time.Now())
	if err != nil {
		h.logger.Error("failed to build history report", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dog-history.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// SuggestBreed returns the catalog label closest to ?term=, or an empty
// suggestion when the term already matches or nothing is close.
func (h *Handler) SuggestBreed(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}

	suggestion, err := h.breeds.Suggest(r.Context(), term)
	if err != nil {
		h.logger.Error("failed to suggest breed", "term", term, "error", err)
		writeError(w, http.StatusBadGateway, "breed catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{Term: term, Suggestion: suggestion})
}

// ListBreeds returns the upstream breed catalog flagged with ban status.
func (h *Handler) ListBreeds(w http.ResponseWriter, r *http.Request) {
	breeds, err := h.breeds.ListBreeds(r.Context())
	if err != nil {
		h.logger.Error("failed to list breeds", "error", err)
		writeError(w, http.StatusBadGateway, "breed catalog unavailable")
		return
	}

	resp := make([]BreedResponse, 0, len(breeds))
	for _, b := range breeds {
		resp = append(resp, toBreedResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
