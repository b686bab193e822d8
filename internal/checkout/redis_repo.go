package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	pkgredis "github.com/partspoint/checkout-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(id string) string
}

type redisRepository struct {
	store sessionStore
	ttl   time.Duration
}

// NewRedisRepository stores sessions as JSON blobs with the configured TTL,
// so instances behind a load balancer can share wizard state.
func NewRedisRepository(store sessionStore, ttl time.Duration) Repository {
	return &redisRepository{store: store, ttl: ttl}
}

func (r *redisRepository) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "session id required")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	key := r.store.SessionKey(session.ID.String())
	if err := r.store.Set(ctx, key, string(payload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}
	return nil
}

func (r *redisRepository) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := r.store.Get(ctx, r.store.SessionKey(id.String()))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &session, nil
}

func (r *redisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Del(ctx, r.store.SessionKey(id.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}
