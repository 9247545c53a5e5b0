package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestAuthenticator(idents ...*Identity) (*Authenticator, *fakeIdentityStore, *MemoryLedger) {
	store := &fakeIdentityStore{identities: idents}
	ledger := NewMemoryLedger()
	codec := NewCodec(testSecret, 0, 3600)
	return NewAuthenticator(codec, ledger, store), store, ledger
}

func TestSignInSuccess(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	now := time.Now()

	tok, err := a.SignIn("jumai@gmail.com", "starwars", now)
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	id, err := a.Verify(tok, now)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id != 1 {
		t.Fatalf("subject mismatch: got %d want 1", id)
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuthenticator()
	tok, err := a.SignIn("ghost@example.com", "starwars", time.Now())
	if !errors.Is(err, ErrUnknownIdentity) {
		t.Fatalf("expected ErrUnknownIdentity, got %v", err)
	}
	if tok != "" {
		t.Fatalf("no token should be issued, got %q", tok)
	}
}

func TestSignInBadPassword(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	if _, err := a.SignIn("jumai@gmail.com", "startrek", time.Now()); !errors.Is(err, ErrBadPassword) {
		t.Fatalf("expected ErrBadPassword, got %v", err)
	}
}

func TestSignInInputValidation(t *testing.T) {
	t.Parallel()

	a, store, _ := newTestAuthenticator()

	if _, err := a.SignIn("not-an-email", "starwars", time.Now()); !errors.Is(err, ErrMalformedEmail) {
		t.Fatalf("expected ErrMalformedEmail, got %v", err)
	}
	if _, err := a.SignIn("a b@x.com", "starwars", time.Now()); !errors.Is(err, ErrMalformedEmail) {
		t.Fatalf("expected ErrMalformedEmail for spaced email, got %v", err)
	}
	if _, err := a.SignIn("jumai@gmail.com", "short6", time.Now()); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort for 6 chars, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("validation failures must not touch the store, got %d calls", store.calls)
	}
}

func TestSignOutRevokes(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	now := time.Now()

	tok, err := a.SignIn("jumai@gmail.com", "starwars", now)
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if err := a.SignOut(tok, now); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if _, err := a.Verify(tok, now); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after sign-out, got %v", err)
	}
	// a second sign-out presents an already-revoked token
	if err := a.SignOut(tok, now); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on repeat sign-out, got %v", err)
	}
}

func TestSignOutRejectsGarbage(t *testing.T) {
	t.Parallel()

	a, _, ledger := newTestAuthenticator()
	now := time.Now()

	if err := a.SignOut("", now); !errors.Is(err, ErrMissingAuthHeader) {
		t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
	}
	if err := a.SignOut("not-a-token", now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	// garbage never reaches the ledger
	if revoked, _ := ledger.IsRevoked("not-a-token"); revoked {
		t.Fatal("garbage token must not be written to the ledger")
	}
}

func TestSignOutDoesNotRevokeExpired(t *testing.T) {
	t.Parallel()

	a, _, ledger := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	t0 := time.Now()

	tok, err := a.SignIn("jumai@gmail.com", "starwars", t0)
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if err := a.SignOut(tok, t0.Add(2*time.Hour)); !errors.Is(err, ErrExpiredSignature) {
		t.Fatalf("expected ErrExpiredSignature, got %v", err)
	}
	if revoked, _ := ledger.IsRevoked(tok); revoked {
		t.Fatal("expired token must not be written to the ledger")
	}
}

// The documented check order is decode before ledger, so a token that is
// both expired and revoked reports the expiry.
func TestExpiredBeatsRevoked(t *testing.T) {
	t.Parallel()

	a, _, ledger := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	t0 := time.Now()

	tok, err := a.SignIn("jumai@gmail.com", "starwars", t0)
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if err := ledger.Revoke(tok); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if _, err := a.Verify(tok, t0.Add(2*time.Hour)); !errors.Is(err, ErrExpiredSignature) {
		t.Fatalf("expected ErrExpiredSignature for expired+revoked, got %v", err)
	}
	// inside the lifetime the revocation shows
	if _, err := a.Verify(tok, t0); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestVerifyStoreFailureIsNotAuthFailure(t *testing.T) {
	t.Parallel()

	a, store, _ := newTestAuthenticator(mustIdentity(1, "Jumai", "jumai@gmail.com", "starwars"))
	store.err = errors.New("store down")
	_, err := a.SignIn("jumai@gmail.com", "starwars", time.Now())
	if err == nil {
		t.Fatal("expected an error from a failing store")
	}
	if StatusOf(err) != 500 {
		t.Fatalf("store outage must map to 500, got %d (%v)", StatusOf(err), err)
	}
}

func TestRecoveryTokenRoundTrip(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuthenticator()
	now := time.Now()

	tok, err := a.RecoveryToken("jumai@gmail.com", now)
	if err != nil {
		t.Fatalf("RecoveryToken error: %v", err)
	}
	email, err := a.VerifyRecovery(tok, now.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("VerifyRecovery error: %v", err)
	}
	if email != "jumai@gmail.com" {
		t.Fatalf("email mismatch: got %q", email)
	}
	if _, err := a.VerifyRecovery(tok, now.Add(25*time.Hour)); !errors.Is(err, ErrExpiredSignature) {
		t.Fatalf("expected ErrExpiredSignature past 24h, got %v", err)
	}
	// once revoked (used), it cannot be replayed
	if err := a.RevokeToken(tok); err != nil {
		t.Fatalf("RevokeToken error: %v", err)
	}
	if _, err := a.VerifyRecovery(tok, now); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after use, got %v", err)
	}
}
