package auth

import "sync"

// RevocationLedger is the durable set of banned tokens. Revoke must be
// idempotent, and once it returns every subsequent IsRevoked (from any
// goroutine) must observe true: this is a security control, not a cache.
type RevocationLedger interface {
	Revoke(token string) error
	IsRevoked(token string) (bool, error)
}

// MemoryLedger is an in-process RevocationLedger for tests and development.
// The production ledger is backed by the banned_tokens table.
type MemoryLedger struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{banned: map[string]struct{}{}}
}

func (l *MemoryLedger) Revoke(token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.banned[token] = struct{}{}
	return nil
}

func (l *MemoryLedger) IsRevoked(token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.banned[token]
	return ok, nil
}
