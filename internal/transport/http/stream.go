package http

import (
	"encoding/json"
	"net/http"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// SnapshotSource opens a live consumer on the snapshot feed.
type SnapshotSource interface {
	SubscribeSnapshots() (<-chan []domain.Event, func(), error)
}

// HandleStream serves GET /api/stream as Server-Sent Events: one
// data frame per snapshot push, each carrying the full event list.
// The subscription is released when the client disconnects.
func HandleStream(src SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
			return
		}

		snapshots, cancel, err := src.SubscribeSnapshots()
		if err != nil {
			writeEventError(w, err)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case events, open := <-snapshots:
				if !open {
					return
				}
				if err := writeSnapshotFrame(w, events); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}

func writeSnapshotFrame(w http.ResponseWriter, events []domain.Event) error {
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toEventResponse(event))
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
