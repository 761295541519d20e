// Package captcha manages human-presence challenge codes: scope-keyed,
// single-use, case-insensitive, stored in Redis with a TTL.
//
// Rendering the challenge to the user (PNG/SVG or otherwise) is a separate
// concern and lives outside this package.
//
// There is no fallback code of any kind: when generation or storage fails,
// the caller gets an error and must reject the request.
package captcha

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when the Redis backend fails.
var ErrStoreUnavailable = errors.New("captcha store unavailable")

// Ambiguous glyphs (0/O, 1/l/I) are excluded.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

const (
	// DefaultLength is the challenge code length.
	DefaultLength = 5
	// DefaultTTL bounds how long a pending challenge stays answerable.
	DefaultTTL = 5 * time.Minute

	keyPrefix = "CAPTCHA:"
)

// consume deletes the pending code only when it matches the submitted
// answer, so a correct answer can be spent exactly once.
const consumeScript = `
local v = redis.call("GET", KEYS[1])
if v and v == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`

var consumeLua = redis.NewScript(consumeScript)

// Service generates and verifies challenge codes. Safe for concurrent use.
type Service struct {
	redis  redis.UniversalClient
	length int
	ttl    time.Duration
}

// NewService creates a challenge service. Non-positive length or ttl select
// the defaults.
func NewService(client redis.UniversalClient, length int, ttl time.Duration) *Service {
	if length <= 0 {
		length = DefaultLength
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{redis: client, length: length, ttl: ttl}
}

func key(scope string) string {
	return keyPrefix + scope
}

// Generate mints a fresh code for scope and stores its lowercase form,
// replacing any pending code for the same scope.
func (s *Service) Generate(ctx context.Context, scope string) (string, error) {
	code, err := newCode(s.length)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, key(scope), strings.ToLower(code), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return code, nil
}

// Verify checks input against the pending code for scope, ignoring case and
// surrounding whitespace. A correct answer consumes the code; a wrong one
// leaves it pending. An expired or absent code never verifies.
func (s *Service) Verify(ctx context.Context, scope, input string) (bool, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return false, nil
	}
	n, err := consumeLua.Run(ctx, s.redis, []string{key(scope)}, input).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n == 1, nil
}

func newCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}
