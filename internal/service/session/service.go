package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"license-storefront/internal/backend"
	"license-storefront/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

type backendAPI interface {
	Login(ctx context.Context, email, password string) (*backend.Session, error)
	CurrentUser(ctx context.Context, token, csrf string) (*domain.Identity, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, in backend.RegisterInput) error
}

type cacheEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

// Service provides the current identity to any consumer, keeping a local
// cache fresh against the upstream who-am-I endpoint. Lookups for the same
// token are collapsed through a single-flight group so a stale in-flight
// response can never overwrite the state a fresher login just wrote.
type Service struct {
	api         backendAPI
	fallbackTTL time.Duration
	logger      *log.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
	group singleflight.Group
}

// New creates a Service. fallbackTTL bounds cache entries whose token does
// not carry a parseable expiry.
func New(api backendAPI, fallbackTTL time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		api:         api,
		fallbackTTL: fallbackTTL,
		logger:      logger,
		cache:       make(map[string]cacheEntry),
	}
}

// Current resolves the identity bound to the session token. A fresh cached
// identity with the activated flag set is returned without a network call;
// otherwise a who-am-I lookup runs, caching on success. On any failure the
// cache entry is cleared and the caller is anonymous.
func (s *Service) Current(ctx context.Context, token, csrf string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	s.mu.RLock()
	e, ok := s.cache[token]
	s.mu.RUnlock()
	if ok && e.identity.Activated && time.Now().Before(e.expiresAt) {
		id := e.identity
		return &id, nil
	}

	v, err, _ := s.group.Do(token, func() (interface{}, error) {
		id, err := s.api.CurrentUser(ctx, token, csrf)
		if err != nil {
			s.evict(token)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				s.logger.Printf("session: identity lookup degraded to anonymous: %v", err)
			}
			return nil, domain.ErrUnauthenticated
		}
		s.put(token, *id)
		return id, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Identity), nil
}

// Login submits credentials and returns the issued session. No local state
// is written on failure; on success the identity is fetched lazily by the
// next Current call for the new token.
func (s *Service) Login(ctx context.Context, email, password string) (*backend.Session, error) {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("session: login email=%s", email)
	return sess, nil
}

// Logout invalidates the session upstream on a best-effort basis and
// unconditionally clears local state. It never fails: availability over
// consistency.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Printf("session: upstream logout failed, clearing local state anyway: %v", err)
		}
	}
	s.evict(token)
	return nil
}

// Register proxies account creation to the upstream.
func (s *Service) Register(ctx context.Context, in backend.RegisterInput) error {
	return s.api.Register(ctx, in)
}

func (s *Service) put(token string, id domain.Identity) {
	s.mu.Lock()
	s.cache[token] = cacheEntry{identity: id, expiresAt: s.tokenExpiry(token)}
	s.mu.Unlock()
}

func (s *Service) evict(token string) {
	s.mu.Lock()
	delete(s.cache, token)
	s.mu.Unlock()
}

// tokenExpiry bounds a cache entry at the access token's own exp claim. The
// token is not verified here; the upstream remains the authority and the
// claim is only used to avoid caching past the token's lifetime.
func (s *Service) tokenExpiry(token string) time.Time {
	fallback := time.Now().Add(s.fallbackTTL)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	if exp.Time.Before(fallback) {
		return exp.Time
	}
	return fallback
}
