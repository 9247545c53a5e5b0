package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec issues and verifies HS256 session tokens. It is stateless: both
// operations are pure functions of the token, the supplied time and the
// process secret. Revocation is somebody else's problem (see Authenticator).
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

// NewCodec builds a codec with a lifetime of days+seconds, mirroring the
// configuration surface. A near-zero lifetime (0 days, 1 second) is how
// tests exercise expiry deterministically.
func NewCodec(secret []byte, days int, seconds int) *Codec {
	return &Codec{
		secret:   secret,
		lifetime: time.Duration(days)*24*time.Hour + time.Duration(seconds)*time.Second,
	}
}

// Issue signs a token for subject with iat=now and exp=now+lifetime.
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	return c.IssueWithLifetime(subject, now, c.lifetime)
}

// IssueWithLifetime signs a token with an explicit lifetime. Used for
// recovery tokens, which carry their own expiry policy.
func (c *Codec) IssueWithLifetime(subject string, now time.Time, lifetime time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and expiry against now and returns the subject.
// Expired tokens report ErrExpiredSignature; everything else that fails
// verification reports ErrInvalidToken.
func (c *Codec) Decode(tokenString string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredSignature
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// IssueFor issues a session token for a numeric user id.
func (c *Codec) IssueFor(userID uint, now time.Time) (string, error) {
	return c.Issue(strconv.FormatUint(uint64(userID), 10), now)
}

// DecodeID decodes a session token whose subject must be a numeric user id.
func (c *Codec) DecodeID(tokenString string, now time.Time) (uint, error) {
	sub, err := c.Decode(tokenString, now)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
