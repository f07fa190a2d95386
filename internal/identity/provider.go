// Package identity implements the sign-in surface of the external
// identity provider: anonymous identities, pre-issued signed tokens,
// and auth-state change notifications.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// Identity is a resolved user. Absent identities are represented as a
// nil *Identity in auth-state callbacks.
type Identity struct {
	UserID string
}

// Provider is the identity-provider contract the session bootstrapper
// consumes.
type Provider interface {
	SignInAnonymously(ctx context.Context) (Identity, error)
	SignInWithToken(ctx context.Context, token string) (Identity, error)
	// OnAuthStateChange registers a listener. It is invoked once
	// immediately with the current identity-or-nil, then on every
	// subsequent change. The returned func unsubscribes.
	OnAuthStateChange(fn func(*Identity)) (unsubscribe func())
}

// TokenClaims is the payload of a pre-issued credential token. The
// subject claim carries the user id.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// LocalProvider verifies HS256-signed tokens against a shared secret
// and mints UUID identities for anonymous sign-in.
type LocalProvider struct {
	secret []byte

	mu        sync.Mutex
	current   *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

// NewLocalProvider constructs a provider. An empty secret is the
// missing-configuration case and fails fast.
func NewLocalProvider(secret string) (*LocalProvider, error) {
	if secret == "" {
		return nil, domain.ErrProviderConfigMissing
	}
	return &LocalProvider{
		secret:    []byte(secret),
		listeners: make(map[int]func(*Identity)),
	}, nil
}

func (p *LocalProvider) SignInAnonymously(_ context.Context) (Identity, error) {
	id := Identity{UserID: "anon-" + uuid.NewString()}
	p.setCurrent(&id)
	return id, nil
}

func (p *LocalProvider) SignInWithToken(_ context.Context, token string) (Identity, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, domain.ErrTokenInvalid
	}

	id := Identity{UserID: claims.Subject}
	p.setCurrent(&id)
	return id, nil
}

func (p *LocalProvider) OnAuthStateChange(fn func(*Identity)) func() {
	p.mu.Lock()
	key := p.nextID
	p.nextID++
	p.listeners[key] = fn
	current := p.current
	p.mu.Unlock()

	// Initial notification with the current state, like the change
	// notifications themselves delivered without holding the lock so
	// the listener may sign in from inside the callback.
	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.listeners, key)
		p.mu.Unlock()
	}
}

// SignOut clears the current identity and notifies listeners with an
// absent identity.
func (p *LocalProvider) SignOut() {
	p.setCurrent(nil)
}

func (p *LocalProvider) setCurrent(id *Identity) {
	p.mu.Lock()
	p.current = id
	fns := make([]func(*Identity), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
