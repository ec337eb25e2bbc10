package auth

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionTokenLength = 64

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newToken returns a random alphanumeric string of the given length.
// 64 alphanumeric characters carry well over 256 bits of entropy.
func newToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}

type sessionEntry struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// SessionCache holds bearer session tokens in memory. Entries expire
// after a fixed TTL; expired tokens are rejected on lookup and swept
// by a background goroutine. A token that has expired or been revoked
// can never become valid again, since tokens are never reused.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	ttl     time.Duration
	done    chan struct{}
	closing sync.Once
}

// NewSessionCache creates a cache whose sessions live for ttl, and
// starts a background goroutine sweeping expired entries every 5
// minutes.
func NewSessionCache(ttl time.Duration) *SessionCache {
	s := &SessionCache{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Issue creates a fresh session token for the user.
func (s *SessionCache) Issue(userID uuid.UUID) (string, error) {
	token, err := newToken(sessionTokenLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = sessionEntry{
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	return token, nil
}

// Resolve returns the user a live token belongs to. Expired tokens are
// removed on sight and reported as unknown.
func (s *SessionCache) Resolve(token string) (uuid.UUID, bool) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return uuid.Nil, false
	}
	return entry.UserID, true
}

// Revoke removes a session. Revoking an unknown token is a no-op.
func (s *SessionCache) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// Count returns the number of live entries, expired ones included
// until the next sweep.
func (s *SessionCache) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the background sweep goroutine. Safe to call more than
// once.
func (s *SessionCache) Close() {
	s.closing.Do(func() { close(s.done) })
}

func (s *SessionCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *SessionCache) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, token)
		}
	}
}
