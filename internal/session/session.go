// Package session establishes the per-run authenticated session: one
// identity, resolved anonymously or from a pre-issued token, exposed
// behind a ready flag.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/identity"
)

// Session is the per-run authentication state. Created once at
// startup and held until the process ends. Safe for concurrent reads.
type Session struct {
	mu          sync.Mutex
	userID      string
	ready       bool
	unsubscribe func()
}

// Ready reports whether the first auth-state notification has been
// observed, regardless of whether it carried an identity.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// UserID returns the resolved user id, or "" while no identity has
// resolved.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Close releases the auth-state subscription. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Session) observe(ctx context.Context, provider identity.Provider, logger *log.Logger) func(*identity.Identity) {
	return func(id *identity.Identity) {
		if id != nil {
			s.mu.Lock()
			s.userID = id.UserID
			s.ready = true
			s.mu.Unlock()
			return
		}

		// No identity: fall back to anonymous sign-in. Failure is
		// recoverable; the session stays identity-less until the next
		// notification.
		if _, err := provider.SignInAnonymously(ctx); err != nil {
			logger.Printf("WARN: anonymous sign-in failed: %v", err)
		}
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
	}
}

// Establish resolves an identity against the provider and returns the
// live session. A nil provider is the missing-configuration case and
// fails fast. A failing pre-issued token is logged and does not block
// the anonymous fallback.
func Establish(ctx context.Context, provider identity.Provider, preIssuedToken string, logger *log.Logger) (*Session, error) {
	if provider == nil {
		return nil, domain.ErrProviderConfigMissing
	}
	if logger == nil {
		logger = log.Default()
	}

	if preIssuedToken != "" {
		if _, err := provider.SignInWithToken(ctx, preIssuedToken); err != nil {
			logger.Printf("WARN: token sign-in failed, continuing without it: %v", err)
		}
	}

	s := &Session{}
	s.unsubscribe = provider.OnAuthStateChange(s.observe(ctx, provider, logger))
	return s, nil
}
