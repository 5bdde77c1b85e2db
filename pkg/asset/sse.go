package asset

import (
	"fmt"
	"net/http"

	"github.com/vito/go-sse/sse"
)

// StatusStreamHandler returns an http.Handler that streams a's status
// transitions as server-sent events, one event per transition. It is the
// transport the asset's broadcast channel feeds when a front end wants
// to watch an asset settle live.
func StatusStreamHandler(a *Asset) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		msgs, unsubscribe := a.Subscribe()
		defer unsubscribe()

		id := 0
		for {
			select {
			case <-r.Context().Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev := sse.Event{
					ID:   fmt.Sprintf("%d", id),
					Name: "status",
					Data: []byte(fmt.Sprintf("%v", msg.Status)),
				}
				if err := ev.Write(w); err != nil {
					return
				}
				flusher.Flush()
				id++
			}
		}
	})
}
