package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	key := "document:abc"
	value := []byte(`{"pages":[]}`)

	// Miss before Set
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("unexpected hit before Set")
	}

	if err := c.Set(ctx, key, value, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, value) {
		t.Errorf("Get = %q, want %q", data, value)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("unexpected hit after Delete")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should not expire")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := DocumentKeyOpts{TemplateID: "bistro", TemplateVersion: "2", EngineVersion: "1.0.0"}

	tests := []struct {
		name   string
		key    string
		prefix string
	}{
		{"menu", k.MenuKey("la-trattoria"), "menu:"},
		{"template", k.TemplateKey("bistro", "2"), "template:"},
		{"document", k.DocumentKey("fp123", opts), "document:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.key, tt.prefix) {
				t.Errorf("key %q should start with %q", tt.key, tt.prefix)
			}
			// prefix + colon + 64 hex chars
			if len(tt.key) != len(tt.prefix)+64 {
				t.Errorf("key length = %d, want %d", len(tt.key), len(tt.prefix)+64)
			}
		})
	}

	// Keys are deterministic and option-sensitive.
	if k.DocumentKey("fp123", opts) != k.DocumentKey("fp123", opts) {
		t.Error("DocumentKey should be deterministic")
	}
	other := opts
	other.TemplateVersion = "3"
	if k.DocumentKey("fp123", opts) == k.DocumentKey("fp123", other) {
		t.Error("a template version bump must change the key")
	}
	if k.DocumentKey("fp123", opts) == k.DocumentKey("fp456", opts) {
		t.Error("a fingerprint change must change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "venue:v1:")

	if got := scoped.MenuKey("dinner"); got != "venue:v1:"+base.MenuKey("dinner") {
		t.Errorf("scoped key %q is not a prefix of the base key", got)
	}
	if scoped.TemplateKey("a", "1") == base.TemplateKey("a", "1") {
		t.Error("scoped and unscoped keys must differ")
	}

	// Different venues never share keys.
	other := NewScopedKeyer(base, "venue:v2:")
	if scoped.MenuKey("dinner") == other.MenuKey("dinner") {
		t.Error("venues must not share cache namespaces")
	}

	// Nil inner defaults to the standard keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if got := fallback.MenuKey("x"); got != "p:"+base.MenuKey("x") {
		t.Errorf("fallback keyer produced %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("non-retryable fails fast", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return ErrNotFound
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("retryable succeeds eventually", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(ErrUnavailable)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})
}
