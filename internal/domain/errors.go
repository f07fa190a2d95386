package domain

import "errors"

var (
	ErrProviderConfigMissing = errors.New("identity provider configuration missing")
	ErrTokenInvalid          = errors.New("invalid sign-in token")
	ErrSessionNotReady       = errors.New("session not ready")
	ErrTitleRequired         = errors.New("event title required")
	ErrDateRequired          = errors.New("event date required")
	ErrEventIDRequired       = errors.New("event id required")
	ErrEventNotFound         = errors.New("event not found")
	ErrInvalidID             = errors.New("invalid id")
)
