package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingAuthHeader indicates no Authorization header (or an empty token) on the request.
	ErrMissingAuthHeader = errors.New("authorization header is missing")
	// ErrMalformedAuthHeader indicates a header that does not split into a scheme+token pair.
	ErrMalformedAuthHeader = errors.New("authorization header is malformed")
	// ErrInvalidToken indicates a malformed, unsigned or tampered token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredSignature indicates a well-formed token past its expiry.
	ErrExpiredSignature = errors.New("expired signature")
	// ErrTokenRevoked indicates a token present in the revocation ledger.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrIdentityGone indicates a valid token whose subject no longer exists.
	ErrIdentityGone = errors.New("token subject no longer exists")
	// ErrUnknownIdentity indicates a sign-in attempt for an unknown email.
	ErrUnknownIdentity = errors.New("unknown email or password")
	// ErrBadPassword indicates a sign-in attempt with a wrong password.
	ErrBadPassword = errors.New("unknown email or password")
	// ErrMalformedEmail indicates an email that fails the local@domain.tld shape check.
	ErrMalformedEmail = errors.New("malformed email address")
	// ErrPasswordTooShort indicates a password at or below the minimum length.
	ErrPasswordTooShort = errors.New("password must be longer than 6 characters")
	// ErrNotOwner indicates the caller does not own the addressed resource.
	ErrNotOwner = errors.New("not the owner of this resource")
	// ErrCategoryNotFound indicates a category path parameter with no row behind it.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrRecipeNotFound indicates a recipe path parameter with no row behind it.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// statusOf is the single place the 401/403/404 policy lives. Deployments
// that prefer the other convention for a condition change one entry here.
var statusOf = map[error]int{
	ErrMissingAuthHeader:   http.StatusForbidden,
	ErrMalformedAuthHeader: http.StatusForbidden,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredSignature:    http.StatusUnauthorized,
	ErrTokenRevoked:        http.StatusUnauthorized,
	ErrIdentityGone:        http.StatusUnauthorized,
	ErrUnknownIdentity:     http.StatusBadRequest,
	ErrBadPassword:         http.StatusBadRequest,
	ErrMalformedEmail:      http.StatusBadRequest,
	ErrPasswordTooShort:    http.StatusBadRequest,
	ErrNotOwner:            http.StatusForbidden,
	ErrCategoryNotFound:    http.StatusNotFound,
	ErrRecipeNotFound:      http.StatusNotFound,
}

// StatusOf maps an auth error to its HTTP status. Anything outside the
// taxonomy is an infrastructure fault and reports 500 so a store outage is
// never mistaken for bad credentials.
func StatusOf(err error) int {
	for target, code := range statusOf {
		if errors.Is(err, target) {
			return code
		}
	}
	return http.StatusInternalServerError
}
