package auth

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is exclusive: passwords must be strictly longer.
const MinPasswordLen = 6

// RecoveryLifetime bounds how long a password-recovery token stays usable.
const RecoveryLifetime = 24 * time.Hour

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9_.]+@[a-zA-Z0-9-]+\.[a-z]+$`)

// ValidateCredentials applies the input policy shared by registration and
// sign-in: a local@domain.tld shaped email and a password longer than
// MinPasswordLen. It runs before any store access.
func ValidateCredentials(email, password string) error {
	if !emailRE.MatchString(email) {
		return ErrMalformedEmail
	}
	if len(password) <= MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Authenticator orchestrates sign-in and sign-out over an explicit codec,
// ledger and identity store; there is no ambient state.
type Authenticator struct {
	codec  *Codec
	ledger RevocationLedger
	users  IdentityStore
}

func NewAuthenticator(codec *Codec, ledger RevocationLedger, users IdentityStore) *Authenticator {
	return &Authenticator{codec: codec, ledger: ledger, users: users}
}

// SignIn checks credentials and issues a session token. Validation failures
// never touch the store and credential failures never issue a token.
func (a *Authenticator) SignIn(email, password string, now time.Time) (string, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return "", err
	}
	ident, err := a.users.FindByEmail(email)
	if err != nil {
		return "", fmt.Errorf("identity lookup: %w", err)
	}
	if ident == nil {
		return "", ErrUnknownIdentity
	}
	if err := bcrypt.CompareHashAndPassword(ident.PasswordHash, []byte(password)); err != nil {
		return "", ErrBadPassword
	}
	return a.codec.IssueFor(ident.ID, now)
}

// Verify is the full validity determination for a presented token:
// signature and expiry first, then the revocation ledger. A revoked token
// is as dead as a tampered one; the decode-first order means a token that
// is both expired and revoked reports ErrExpiredSignature.
func (a *Authenticator) Verify(tokenString string, now time.Time) (uint, error) {
	id, err := a.codec.DecodeID(tokenString, now)
	if err != nil {
		return 0, err
	}
	revoked, err := a.ledger.IsRevoked(tokenString)
	if err != nil {
		return 0, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return 0, ErrTokenRevoked
	}
	return id, nil
}

// SignOut revokes a verified token. Tokens that fail verification are
// propagated as auth failures without touching the ledger, so garbage
// strings can never pollute it.
func (a *Authenticator) SignOut(tokenString string, now time.Time) error {
	if tokenString == "" {
		return ErrMissingAuthHeader
	}
	if _, err := a.Verify(tokenString, now); err != nil {
		return err
	}
	return a.ledger.Revoke(tokenString)
}

// RecoveryToken issues a password-recovery token whose subject is the
// account email, valid for RecoveryLifetime.
func (a *Authenticator) RecoveryToken(email string, now time.Time) (string, error) {
	return a.codec.IssueWithLifetime(email, now, RecoveryLifetime)
}

// VerifyRecovery validates a recovery token (including revocation, so a
// used token cannot be replayed) and returns the embedded email.
func (a *Authenticator) VerifyRecovery(tokenString string, now time.Time) (string, error) {
	email, err := a.codec.Decode(tokenString, now)
	if err != nil {
		return "", err
	}
	revoked, err := a.ledger.IsRevoked(tokenString)
	if err != nil {
		return "", fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}
	return email, nil
}

// RevokeToken bans a token outright. Used by the reset flow to make
// recovery tokens single-use.
func (a *Authenticator) RevokeToken(tokenString string) error {
	return a.ledger.Revoke(tokenString)
}
