package authgate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/panelkit/authgate/session"
)

// identityCache memoizes credential string -> identity projection. The raw
// credential is the Redis key, which is what lets session.Registry purge an
// entry when it revokes the session that minted it.
type identityCache struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

// get returns (nil, nil) on a miss. A miss only ever means "recompute";
// an undecodable entry is treated as a miss for the same reason.
func (c *identityCache) get(ctx context.Context, credential string) (*User, error) {
	data, err := c.redis.Get(ctx, credential).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", session.ErrStoreUnavailable, err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (c *identityCache) put(ctx context.Context, credential string, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, credential, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", session.ErrStoreUnavailable, err)
	}
	return nil
}
