package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSignatureInvalid is returned when a credential's signature or encoding
// is malformed or was produced under a different secret.
var ErrSignatureInvalid = errors.New("credential signature invalid")

// ErrDecode is returned for structural problems in an otherwise
// well-signed credential (missing claims, wrong claim types).
var ErrDecode = errors.New("credential decode failed")

// Claims is the full claim set a credential carries: the subject identity
// and the session it was minted for. Nothing else.
type Claims struct {
	SubjectID int64  `json:"id"`
	SessionID string `json:"session"`
	jwt.RegisteredClaims
}

// Codec is a stateless HS256 signer/verifier over a single process-wide
// secret. Safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec returns a codec signing with secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret required")
	}
	return &Codec{secret: secret}, nil
}

// Sign mints a credential binding subjectID to sessionID.
func (c *Codec) Sign(subjectID int64, sessionID string) (string, error) {
	claims := Claims{
		SubjectID: subjectID,
		SessionID: sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks credential and returns its claims. It never tells the two
// failure kinds apart more precisely than [ErrSignatureInvalid] and
// [ErrDecode].
func (c *Codec) Verify(credential string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	tok, err := parser.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrDecode
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session claim", ErrDecode)
	}
	return claims, nil
}
