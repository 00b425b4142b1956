package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in process for ttl after their last Save,
// like the redis store does with its key expiry.
type MemorySessionStore struct {
	sessions *ttlMap[models.Session]
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{sessions: newTTLMap[models.Session](ttl)}
}

// Get returns a copy; callers persist changes with Save.
func (m *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Save writes the whole session and refreshes its TTL.
func (m *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	m.sessions.set(session.ID, *session)
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.sessions.delete(id)
	return nil
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "vector_art:session:" + id
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get error: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the whole session and refreshes its TTL.
func (r *RedisSessionStore) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err()
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}
