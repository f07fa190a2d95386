package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/app"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// EventAdapter is the minimal interface the event endpoints need.
type EventAdapter interface {
	AddEvent(ctx context.Context, in app.AddEventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	Snapshot() []domain.Event
}

// HandleEvents serves GET /api/events (latest snapshot) and
// POST /api/events (add).
func HandleEvents(svc EventAdapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeEventList(w, svc.Snapshot())
			return
		case http.MethodPost:
			var req addEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.AddEvent(r.Context(), app.AddEventInput{
				Title: req.Title,
				Date:  req.Date,
			})
			if err != nil {
				writeEventError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toEventResponse(event))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleDeleteEvent serves DELETE /api/events/{id}.
func HandleDeleteEvent(svc EventAdapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := svc.DeleteEvent(r.Context(), id); err != nil {
			writeEventError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotReady):
		writeError(w, http.StatusServiceUnavailable, codeSessionNotReady, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrDateRequired):
		writeError(w, http.StatusBadRequest, codeDateRequired, err.Error())
	case errors.Is(err, domain.ErrEventIDRequired):
		writeError(w, http.StatusBadRequest, codeEventIDRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusNotFound, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeEventList(w http.ResponseWriter, events []domain.Event) {
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toEventResponse(event))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type addEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:        event.ID,
		Title:     event.Title,
		Date:      event.Date,
		CreatedAt: event.CreatedAt,
	}
}

func parseEventPath(path string) (string, bool) {
	parts := splitPath(path)
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "api" || parts[1] != "events" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
