package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

// ErrInvalidSession indicates the session id is unknown or expired.
var ErrInvalidSession = errors.New("invalid session")

// Session is the identity snapshot persisted per shopper: the backend's
// bearer token plus the user it belongs to.
type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Service issues and resolves shopper sessions.
type Service struct {
	store storage.Store
	ttl   time.Duration
	now   func() time.Time
}

func New(store storage.Store, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl, now: time.Now}
}

// Create persists a session for the authenticated user and returns its id.
func (s *Service) Create(ctx context.Context, token string, user domain.User) (string, error) {
	sid := uuid.NewString()
	created := s.now().UTC()
	sess := Session{
		Token:     token,
		User:      user,
		CreatedAt: created,
		ExpiresAt: created.Add(s.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, key(sid), payload); err != nil {
		return "", err
	}
	return sid, nil
}

// Load resolves a session id. Expired sessions are deleted on sight.
func (s *Service) Load(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return nil, ErrInvalidSession
	}
	raw, err := s.store.Get(ctx, key(sid))
	if err != nil {
		return nil, ErrInvalidSession
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrInvalidSession
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.store.Delete(ctx, key(sid))
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

// Clear drops the session; used by logout and by forced logout on a 401.
func (s *Service) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.store.Delete(ctx, key(sid))
}

// NewAnonymousID mints the guest identity a session-less shopper acts as.
// Guest carts and coupons are namespaced under it; logging in swaps the
// namespace wholesale, it never merges the guest cart in.
func NewAnonymousID() string {
	return uuid.NewString()
}

func key(sid string) string {
	return "session:" + sid
}
