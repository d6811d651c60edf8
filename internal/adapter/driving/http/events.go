package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sseKeepAlive is the interval between comment lines that keep idle
// connections open through proxies.
const sseKeepAlive = 15 * time.Second

// Events streams display state changes as server-sent events. The current
// state is sent on connect; later events carry only the latest state, so a
// slow client skips intermediate states.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	states, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	h.logger.Debug("sse client connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("sse client disconnected", "remote", r.RemoteAddr)
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case st := <-states:
			data, err := json.Marshal(toStateResponse(st))
			if err != nil {
				h.logger.Error("failed to encode state event", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			h.logger.Error("sse flush failed", "error", err)
			return
		}
	}
}
