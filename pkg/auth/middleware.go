package auth

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// BearerToken extracts the token part of an Authorization header. Only the
// split-on-space arity is checked, not the scheme word.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}

// RequireAuth is the first request gate. It walks header extraction, token
// verification (signature, expiry, revocation) and identity resolution;
// any failure aborts the chain with the mapped status, so downstream
// handlers only ever run with a trusted identity in the context.
func RequireAuth(a *Authenticator, users IdentityStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			reject(c, err)
			return
		}
		userID, err := a.Verify(token, time.Now())
		if err != nil {
			reject(c, err)
			return
		}
		ident, err := users.FindByID(userID)
		if err != nil {
			reject(c, err)
			return
		}
		if ident == nil {
			// signed token for a subject deleted after issuance
			reject(c, ErrIdentityGone)
			return
		}
		c.Set(identityKey, &Identity{ID: ident.ID, Username: ident.Username, Email: ident.Email})
		c.Next()
	}
}

// CurrentIdentity returns the identity bound by RequireAuth.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*Identity)
	return ident, ok
}

func reject(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusOf(err), gin.H{"error": err.Error()})
}
