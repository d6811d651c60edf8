package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /app/breeds", h.Breeds)

	// Form actions (POST-redirect-GET).
	mux.HandleFunc("POST /app/discover", h.Discover)
	mux.HandleFunc("POST /app/bans", h.Ban)
	mux.HandleFunc("POST /app/bans/remove", h.Unban)
}
