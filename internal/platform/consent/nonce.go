package consent

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

const nonceLength = 32

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NonceCache issues single-use challenge tokens with a bounded
// lifetime. A nonce is consumable exactly once: concurrent consumers
// racing on the same value get exactly one winner. Expired, reused,
// and never-issued nonces are indistinguishable to callers.
type NonceCache struct {
	mu      sync.Mutex
	entries map[string]time.Time // nonce -> expiry
	ttl     time.Duration
	done    chan struct{}
	closing sync.Once
}

// NewNonceCache creates a cache whose nonces live for ttl, and starts
// a background goroutine sweeping expired entries every 5 minutes.
func NewNonceCache(ttl time.Duration) *NonceCache {
	n := &NonceCache{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go n.cleanupLoop()
	return n
}

// Issue generates, stores, and returns a fresh nonce along with its
// expiry timestamp.
func (n *NonceCache) Issue() (string, time.Time, error) {
	buf := make([]byte, nonceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = nonceAlphabet[int(b)%len(nonceAlphabet)]
	}
	nonce := string(buf)
	expiresAt := time.Now().Add(n.ttl)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries[nonce] = expiresAt
	return nonce, expiresAt, nil
}

// TryConsume checks presence and removes the nonce in one atomic step.
// It returns true only for the single caller that wins; everyone else,
// and any caller presenting an expired or unknown nonce, gets false.
func (n *NonceCache) TryConsume(nonce string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	expiresAt, ok := n.entries[nonce]
	if !ok {
		return false
	}
	delete(n.entries, nonce)
	return time.Now().Before(expiresAt)
}

// Count returns the number of stored entries, expired ones included
// until the next sweep.
func (n *NonceCache) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// Close stops the background sweep goroutine. Safe to call more than
// once.
func (n *NonceCache) Close() {
	n.closing.Do(func() { close(n.done) })
}

func (n *NonceCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-n.done:
			return
		case <-ticker.C:
			n.cleanup()
		}
	}
}

func (n *NonceCache) cleanup() {
	now := time.Now()

	n.mu.Lock()
	defer n.mu.Unlock()
	for nonce, expiresAt := range n.entries {
		if now.After(expiresAt) {
			delete(n.entries, nonce)
		}
	}
}
