package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// eventsHandler streams catalog updates as Server-Sent Events. Each
// event carries a full catalog snapshot, so a consumer never needs to
// re-read the store after a notification. The current snapshot is sent
// immediately on connect, covering consumers that attach after a
// mutation they would otherwise have missed.
func (a *App) eventsHandler(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}
	updates, cancel := a.Broadcaster.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent := func(v any) bool {
		data, err := json.Marshal(v)
		if err != nil {
			obs.Logger.Warn("sse_encode_error", "error", err)
			return false
		}
		if _, err := fmt.Fprintf(w, "event: catalog\ndata: %s\n\n", data); err != nil {
			return false
		}
		fl.Flush()
		return true
	}

	if !writeEvent(map[string]any{"products": a.Catalog.List()}) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case up, open := <-updates:
			if !open {
				return
			}
			if !writeEvent(up) {
				return
			}
		}
	}
}
