// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/dogdiscoverer/internal/application"
)

const (
	// settleWait bounds how long a form action waits for the triggered
	// discovery before redirecting. A run still in flight is shown as loading.
	settleWait = 3 * time.Second

	// loadingRefresh is the page refresh interval while a discovery runs.
	loadingRefresh = 1
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	session *application.SessionService
	breeds  *application.BreedService
	about   string
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
		about:   RenderMarkdown(aboutMarkdown),
		logger:  logger,
	}
}

// Dashboard renders the main page with the full HTML layout.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	state := h.session.State()

	bans, err := h.session.Bans(r.Context())
	if err != nil {
		h.logger.Error("failed to list bans", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	history, err := h.session.History(r.Context(), 0)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	m := toDashboardViewModel(state, bans, history, token, q.Get("notice"), h.about)
	if q.Get("notice") == "suggest" {
		m.Suggestion = q.Get("suggest")
	}

	refresh := 0
	if m.Loading {
		refresh = loadingRefresh
	}

	h.render(w, r, "dashboard", templates.Layout("Dog Discoverer", refresh, pages.Dashboard(m)))
}

// Breeds renders the breed catalog page. An unreachable catalog renders an
// inline notice instead of an error page.
func (h *Handler) Breeds(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)

	breeds, err := h.breeds.ListBreeds(r.Context())
	if err != nil {
		h.logger.Warn("breed catalog unavailable", "error", err)
		breeds = nil
	}

	h.render(w, r, "breeds", templates.Layout("Breeds | Dog Discoverer", 0, pages.Breeds(toBreedsViewModel(breeds, token))))
}

// Discover triggers a new discovery and redirects back to the dashboard.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	ctx, cancel := waitContext(r)
	defer cancel()

	if err := h.session.Discover(ctx); err != nil && !settledOrPending(err) {
		h.logger.Error("failed to discover", "error", err)
		redirect(w, r, "/", notice("failed"))
		return
	}

	redirect(w, r, "/", nil)
}

// Ban adds the submitted term to the ban list. A term that is close to but not
// exactly a breed label redirects with a correction the user can ban instead.
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	h.mutateBans(w, r, h.session.AddBan, "add ban", h.suggestCorrection)
}

// Unban removes the submitted term from the ban list.
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	h.mutateBans(w, r, h.session.RemoveBan, "remove ban", nil)
}

func (h *Handler) mutateBans(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(context.Context, string) (bool, error),
	action string,
	followUp func(context.Context, string) url.Values,
) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	term := r.FormValue("term")
	target := returnPath(r)

	ctx, cancel := waitContext(r)
	defer cancel()

	_, err := mutate(ctx, term)
	switch {
	case errors.Is(err, application.ErrEmptyTerm):
		redirect(w, r, target, notice("empty-term"))
		return
	case err != nil && !settledOrPending(err):
		h.logger.Error("failed to "+action, "term", term, "error", err)
		redirect(w, r, target, notice("failed"))
		return
	}

	var query url.Values
	if followUp != nil {
		query = followUp(r.Context(), term)
	}
	redirect(w, r, target, query)
}

// suggestCorrection returns the redirect query offering the closest breed
// label for term, or nil when there is none. Catalog failures are not shown.
func (h *Handler) suggestCorrection(ctx context.Context, term string) url.Values {
	suggestion, err := h.breeds.Suggest(ctx, term)
	if err != nil {
		h.logger.Debug("breed suggestion unavailable", "error", err)
		return nil
	}
	if suggestion == "" {
		return nil
	}
	return url.Values{"notice": {"suggest"}, "suggest": {suggestion}}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render "+page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// waitContext detaches from the request so a client disconnect does not abort
// a ban mutation halfway, and bounds the wait for the discovery it triggers.
func waitContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), settleWait)
}

// settledOrPending reports whether err only means the discovery did not find a
// dog or is still running after settleWait.
func settledOrPending(err error) bool {
	return errors.Is(err, application.ErrNotFound) || errors.Is(err, context.DeadlineExceeded)
}

// returnPath limits post-action redirects to the GUI's own pages.
func returnPath(r *http.Request) string {
	if r.FormValue("return") == "/app/breeds" {
		return "/app/breeds"
	}
	return "/"
}

func notice(code string) url.Values {
	return url.Values{"notice": {code}}
}

func redirect(w http.ResponseWriter, r *http.Request, target string, query url.Values) {
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
