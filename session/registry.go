package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when the Redis backend fails on a read or
// write. A timed-out call is the same failure; it never escalates further.
var ErrStoreUnavailable = errors.New("session store unavailable")

// DefaultKeyPrefix namespaces per-user registry entries.
const DefaultKeyPrefix = "USER_SESSIONS:"

// Registry maps each user to the set of currently active sessions. All
// state lives in Redis; the Registry itself holds no mutable state and is
// safe for concurrent use.
type Registry struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRegistry creates a registry backed by the given Redis client. An empty
// prefix selects [DefaultKeyPrefix].
func NewRegistry(client redis.UniversalClient, prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Registry{redis: client, prefix: prefix}
}

func (r *Registry) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

// NewID returns a fresh opaque session identifier (128 random bits).
func NewID() string {
	return uuid.NewString()
}

// Create records one session under the user's registry entry. The write is
// a single field-level HSET: concurrent logins for the same user cannot
// drop one another's entries.
func (r *Registry) Create(ctx context.Context, userID int64, sessionID string, meta Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := r.redis.HSet(ctx, r.key(userID), sessionID, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Exists reports whether sessionID is currently registered for userID. A
// missing registry entry is an empty set, not an error.
func (r *Registry) Exists(ctx context.Context, userID int64, sessionID string) (bool, error) {
	ok, err := r.redis.HExists(ctx, r.key(userID), sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ok, nil
}

// List returns the live snapshot of the user's sessions. Entries that no
// longer decode are skipped; one bad blob must not hide the rest.
func (r *Registry) List(ctx context.Context, userID int64) (map[string]Meta, error) {
	raw, err := r.redis.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return map[string]Meta{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sessions := make(map[string]Meta, len(raw))
	for sessionID, blob := range raw {
		var meta Meta
		if err := json.Unmarshal([]byte(blob), &meta); err != nil {
			continue
		}
		sessions[sessionID] = meta
	}
	return sessions, nil
}

// Remove deletes one session and purges the decoded-identity cache entry
// stored under its credential. Removing an absent session succeeds.
func (r *Registry) Remove(ctx context.Context, userID int64, sessionID string) error {
	blob, err := r.redis.HGet(ctx, r.key(userID), sessionID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var meta Meta
	if jsonErr := json.Unmarshal([]byte(blob), &meta); jsonErr == nil && meta.Credential != "" {
		if err := r.redis.Del(ctx, meta.Credential).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	if err := r.redis.HDel(ctx, r.key(userID), sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// RemoveAll revokes every session for userID: each recorded credential's
// decoded-identity cache entry is purged, then the whole registry entry is
// deleted in one DEL.
func (r *Registry) RemoveAll(ctx context.Context, userID int64) error {
	sessions, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(sessions)+1)
	for _, meta := range sessions {
		if meta.Credential != "" {
			keys = append(keys, meta.Credential)
		}
	}
	keys = append(keys, r.key(userID))

	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
