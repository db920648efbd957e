package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dkravtsov/shop-backend/internal/logger"
)

// ErrSessionNotFound is returned when a session ID has no live record,
// either because it never existed, expired, or was destroyed by logout.
var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps opaque sessions in Redis. A session maps an ID to exactly one
// user; destroying the key is what actually ends the session, regardless of
// any cookie the client still holds.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create registers a new session for the user and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()
	key := keyPrefix + sessionID

	err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err()

	logger.Log.Infow("session create",
		"key", key,
		"user_id", userID,
		"ttl", ttl,
		"error", err,
	)

	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Resolve returns the user ID owning the session.
func (s *Store) Resolve(ctx context.Context, sessionID string) (int64, error) {
	key := keyPrefix + sessionID

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("session resolve",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record %s: %w", key, err)
	}

	return userID, nil
}

// Destroy deletes the session record. Destroying an unknown session is not an error.
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	err := s.client.Del(ctx, key).Err()

	logger.Log.Infow("session destroy",
		"key", key,
		"error", err,
	)

	return err
}
