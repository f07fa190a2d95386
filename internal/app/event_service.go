package app

import (
	"context"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// EventRepository is the minimal store surface the adapter needs.
type EventRepository interface {
	CreateEvent(ctx context.Context, scope domain.Scope, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, scope domain.Scope, id string) error
	ListEvents(ctx context.Context, scope domain.Scope) ([]domain.Event, error)
}

// SessionState is what the adapter reads from the bootstrapped
// session.
type SessionState interface {
	Ready() bool
	UserID() string
}

// EventService is the event-store adapter: ready-gated writes against
// the user's scope plus read access to the live snapshot. Writes
// never touch the snapshot; it only moves when the store pushes a new
// one through the feed.
type EventService struct {
	repo      EventRepository
	session   SessionState
	feed      *SnapshotFeed
	namespace string
}

func NewEventService(repo EventRepository, sess SessionState, feed *SnapshotFeed, namespace string) *EventService {
	return &EventService{
		repo:      repo,
		session:   sess,
		feed:      feed,
		namespace: namespace,
	}
}

// Scope returns the store scope for the current session, or
// ErrSessionNotReady before the session has resolved a user.
func (s *EventService) Scope() (domain.Scope, error) {
	if !s.session.Ready() {
		return domain.Scope{}, domain.ErrSessionNotReady
	}
	userID := s.session.UserID()
	if userID == "" {
		return domain.Scope{}, domain.ErrSessionNotReady
	}
	return domain.Scope{Namespace: s.namespace, UserID: userID}, nil
}

type AddEventInput struct {
	Title string
	Date  string
}

// AddEvent validates the draft and writes it to the store. The store
// assigns the id; the returned event is not inserted into the local
// snapshot, callers observe it on the next subscription push.
func (s *EventService) AddEvent(ctx context.Context, in AddEventInput) (domain.Event, error) {
	scope, err := s.Scope()
	if err != nil {
		return domain.Event{}, err
	}
	if in.Title == "" {
		return domain.Event{}, domain.ErrTitleRequired
	}
	if in.Date == "" {
		return domain.Event{}, domain.ErrDateRequired
	}

	return s.repo.CreateEvent(ctx, scope, domain.Event{
		Title: in.Title,
		Date:  in.Date,
	})
}

// DeleteEvent removes an event from the store. There is no local
// existence check; an unknown id is reported by the backend.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	scope, err := s.Scope()
	if err != nil {
		return err
	}
	if id == "" {
		return domain.ErrEventIDRequired
	}
	return s.repo.DeleteEvent(ctx, scope, id)
}

// Snapshot returns the latest pushed event list. Before the first
// push it is empty.
func (s *EventService) Snapshot() []domain.Event {
	events, _ := s.feed.Latest()
	return events
}

// SubscribeSnapshots opens a consumer on the live feed. The session
// must be ready, matching the other adapter operations.
func (s *EventService) SubscribeSnapshots() (<-chan []domain.Event, func(), error) {
	if _, err := s.Scope(); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe()
	return ch, cancel, nil
}
