package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionCache_IssueAndResolve(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	defer cache.Close()

	userID := uuid.New()
	token, err := cache.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(token) != sessionTokenLength {
		t.Errorf("token length = %d, want %d", len(token), sessionTokenLength)
	}
	for _, r := range token {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			t.Fatalf("token contains non-alphanumeric character %q", r)
		}
	}

	got, ok := cache.Resolve(token)
	if !ok {
		t.Fatal("expected token to resolve")
	}
	if got != userID {
		t.Errorf("resolved user = %s, want %s", got, userID)
	}
}

func TestSessionCache_UnknownToken(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	defer cache.Close()

	if _, ok := cache.Resolve("nope"); ok {
		t.Error("unknown token should not resolve")
	}
}

func TestSessionCache_ExpiredTokenStaysDead(t *testing.T) {
	cache := NewSessionCache(-time.Second)
	defer cache.Close()

	token, err := cache.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, ok := cache.Resolve(token); ok {
		t.Fatal("expired token should not resolve")
	}
	// lookup removes the entry, repeated lookups must keep failing
	if _, ok := cache.Resolve(token); ok {
		t.Fatal("expired token must never come back")
	}
	if cache.Count() != 0 {
		t.Errorf("expired entry not removed, count = %d", cache.Count())
	}
}

func TestSessionCache_Revoke(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	defer cache.Close()

	token, err := cache.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cache.Revoke(token)
	if _, ok := cache.Resolve(token); ok {
		t.Error("revoked token should not resolve")
	}
	// revoking again is a no-op
	cache.Revoke(token)
}

func TestSessionCache_TokensAreUnique(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	defer cache.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := cache.Issue(uuid.New())
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate token issued")
		}
		seen[token] = true
	}
}

func TestSessionCache_ConcurrentAccess(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				token, err := cache.Issue(uuid.New())
				if err != nil {
					t.Error(err)
					return
				}
				if _, ok := cache.Resolve(token); !ok {
					t.Error("freshly issued token did not resolve")
					return
				}
				cache.Revoke(token)
			}
		}()
	}
	wg.Wait()

	if cache.Count() != 0 {
		t.Errorf("count = %d after revoking everything", cache.Count())
	}
}

func TestSessionCache_ConcurrentClose(t *testing.T) {
	cache := NewSessionCache(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Close()
		}()
	}
	wg.Wait()
}
