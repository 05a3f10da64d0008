// Package tokenstore owns the client's persisted credential material: the
// access/refresh token pair, stored under two fixed namespaced keys in a
// pluggable Backend. It is the only component that writes those keys.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemach/admin-console/internal/core/domain"
)

// DefaultNamespace prefixes both storage keys.
const DefaultNamespace = "gemach.console"

const (
	accessTokenKey  = "accessToken"
	refreshTokenKey = "refreshToken"
)

// Storage keys under DefaultNamespace.
const (
	KeyAccessToken  = DefaultNamespace + "." + accessTokenKey
	KeyRefreshToken = DefaultNamespace + "." + refreshTokenKey
)

// ErrWatchUnsupported is returned by Watch when the backend cannot observe external writes.
var ErrWatchUnsupported = errors.New("tokenstore: backend does not support watching")

// Backend is a string key/value storage, the analogue of browser storage.
// Set writes every pair in values; Delete of an absent key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Watcher is implemented by backends that can report writes made by other processes.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Store implements ports.TokenStore on top of a Backend.
type Store struct {
	backend    Backend
	accessKey  string
	refreshKey string
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace replaces DefaultNamespace in both keys.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns != "" {
			s.accessKey = ns + "." + accessTokenKey
			s.refreshKey = ns + "." + refreshTokenKey
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store writing to backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		accessKey:  KeyAccessToken,
		refreshKey: KeyRefreshToken,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTokens overwrites the stored pair. Values are not validated.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.backend.Set(ctx, map[string]string{
		s.accessKey:  access,
		s.refreshKey: refresh,
	}); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token and whether one is present.
func (s *Store) AccessToken(ctx context.Context) (string, bool, error) {
	return s.get(ctx, s.accessKey)
}

// RefreshToken returns the stored refresh token and whether one is present.
func (s *Store) RefreshToken(ctx context.Context) (string, bool, error) {
	return s.get(ctx, s.refreshKey)
}

// ClearTokens removes both keys. Clearing an empty store is a no-op.
func (s *Store) ClearTokens(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.accessKey, s.refreshKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// IsTokenExpired reports whether token is expired. Any decoding problem,
// including a missing exp claim, counts as expired.
func (s *Store) IsTokenExpired(token string) bool {
	p, err := decodePayload(token)
	if err != nil || p.ExpiresAt == nil {
		return true
	}
	return p.ExpiresAt.Before(s.now())
}

// TokenPayload decodes token's claims without verifying its signature.
// The result is advisory and must not be used for authorization.
func (s *Store) TokenPayload(token string) (*domain.TokenPayload, bool) {
	p, err := decodePayload(token)
	if err != nil {
		return nil, false
	}
	return p.toDomain(), true
}

// Watch calls onChange whenever another process rewrites the stored pair.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	return w.Watch(ctx, onChange)
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, ok, nil
}
