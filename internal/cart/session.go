package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionStore keeps one active cart per register session in Redis. The cart
// engine itself stays pure; this wrapper is the only stateful surface.
type SessionStore struct {
	kv  kvStore
	ttl time.Duration
}

// NewSessionStore builds a session store with the given TTL.
func NewSessionStore(kv kvStore, ttl time.Duration) (*SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{kv: kv, ttl: ttl}, nil
}

// Load fetches the session's cart, returning a fresh empty cart when none is
// stored.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	raw, err := s.kv.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return New(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart session")
	}
	return &c, nil
}

// Save persists the cart snapshot under the session key.
func (s *SessionStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart session")
	}
	if err := s.kv.Set(ctx, sessionKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

// Dispatch loads the session cart, applies the command, and saves the result.
func (s *SessionStore) Dispatch(ctx context.Context, sessionID string, cmd Command) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := Apply(c, cmd); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear drops the stored cart for the session.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Del(ctx, sessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart session")
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "cart:session:" + sessionID
}
