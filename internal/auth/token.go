package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

const DefaultIssuer = "skillassist"

// TokenService issues and verifies stateless HS256 tokens. There is no
// revocation: a token stays valid until it expires, and logging out means the
// client discards it. Rotating the secret invalidates every outstanding token.
type TokenService struct {
	hmac   []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Option func(*TokenService)

func WithClock(now func() time.Time) Option { return func(t *TokenService) { t.now = now } }
func WithIssuer(iss string) Option          { return func(t *TokenService) { t.issuer = iss } }

func NewTokenService(secret string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	t := &TokenService{hmac: []byte(secret), ttl: ttl, issuer: DefaultIssuer, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// Issue signs a token for the student and returns it with its expiry.
func (t *TokenService) Issue(studentID string) (string, time.Time, error) {
	if studentID == "" {
		return "", time.Time{}, errors.New("auth: empty subject")
	}
	now := t.now()
	exp := now.Add(t.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   studentID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.hmac)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign: %w", err)
	}
	return tok, exp.Truncate(time.Second), nil
}

// Verify returns the token's subject. ErrTokenExpired is only returned for a
// token whose signature checked out.
func (t *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	case !token.Valid || claims.Subject == "":
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// TTL is the validity window applied to new tokens.
func (t *TokenService) TTL() time.Duration { return t.ttl }
