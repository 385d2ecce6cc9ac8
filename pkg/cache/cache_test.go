package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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

func TestEnabled(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		c    Cache
		want bool
	}{
		{"nil", nil, false},
		{"null", NewNullCache(), false},
		{"null pointer", &NullCache{}, false},
		{"file", fc, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enabled(tt.c); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	h1 := Digest([]byte("hello"))
	if h1 != Digest([]byte("hello")) {
		t.Error("Digest should be deterministic")
	}
	if h1 == Digest([]byte("world")) {
		t.Error("different inputs should produce different digests")
	}
	if len(h1) != 64 {
		t.Errorf("Digest length = %d, want 64", len(h1))
	}
}

func TestResultKeyFields(t *testing.T) {
	base := ResultKeyOpts{Format: "yaml"}
	variants := []ResultKeyOpts{
		{Format: "toml"},
		{Format: "yaml", NoMirror: true},
		{Format: "yaml", MaxDepth: 8},
		{Format: "yaml", Variables: "pitch=20"},
		{Format: "yaml", SeedPoints: "abc"},
	}
	want := base.key("layout")
	for _, v := range variants {
		if v.key("layout") == want {
			t.Errorf("%+v should not share a key with %+v", v, base)
		}
	}
	if base.key("other") == want {
		t.Error("layout digest should be part of the key")
	}
	// Field values cannot bleed into each other.
	a := ResultKeyOpts{Format: "yaml", Variables: "a\nseed=\"x\""}
	b := ResultKeyOpts{Format: "yaml", Variables: "a", SeedPoints: "x"}
	if a.key("l") == b.key("l") {
		t.Error("quoted fields should keep keys distinct")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Result keys include options in the hash
	rk1 := k.ResultKey("hash123", ResultKeyOpts{Format: "json"})
	rk2 := k.ResultKey("hash123", ResultKeyOpts{Format: "json", NoMirror: true})
	if rk1 == rk2 {
		t.Error("Different ResultKeyOpts should produce different keys")
	}
	if rk1 != k.ResultKey("hash123", ResultKeyOpts{Format: "json"}) {
		t.Error("ResultKey should be deterministic")
	}
	if !strings.HasPrefix(rk1, "result:") {
		t.Errorf("ResultKey unexpected: %s", rk1)
	}

	// Graph keys differ from result keys for the same layout
	gk := k.GraphKey("hash123", GraphKeyOpts{Format: "json"})
	if gk == rk1 || !strings.HasPrefix(gk, "graph:") {
		t.Errorf("GraphKey unexpected: %s", gk)
	}
	if gk == k.GraphKey("hash123", GraphKeyOpts{Format: "svg"}) {
		t.Error("Different GraphKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "keygrid:corne:")

	key := scoped.ResultKey("h", ResultKeyOpts{})
	if key != "keygrid:corne:"+inner.ResultKey("h", ResultKeyOpts{}) {
		t.Errorf("ScopedKeyer ResultKey should be prefixed: %s", key)
	}
	key = scoped.GraphKey("h", GraphKeyOpts{})
	if !strings.HasPrefix(key, "keygrid:corne:graph:") {
		t.Errorf("ScopedKeyer GraphKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ResultKey("h", ResultKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().ResultKey("h", ResultKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Deleted key should miss")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("Expired entry should miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("Zero TTL entry should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Corrupt entry should be a silent miss: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Corrupt entry should be removed")
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	s, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Entries != 3 || s.Bytes == 0 {
		t.Errorf("Stats = %+v", s)
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if s, _ := c.Stats(); s.Entries != 0 {
		t.Errorf("after Clear: %+v", s)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "keygrid:test:" + t.Name()
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Errorf("after Delete: hit=%v err=%v", hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

func TestTransient(t *testing.T) {
	if transient(nil) != nil {
		t.Error("transient(nil) should be nil")
	}
	err := transient(ErrNetwork)
	if !isTransient(err) {
		t.Error("wrapped error should be transient")
	}
	if !errors.Is(err, ErrNetwork) || err.Error() != ErrNetwork.Error() {
		t.Errorf("transient should preserve the cause: %v", err)
	}
	if isTransient(ErrNetwork) {
		t.Error("unwrapped error should not be transient")
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff{attempts: 3, delay: time.Millisecond}
	errPermanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent failure", 3, errPermanent, 1, errPermanent},
		{"recovers", 1, transient(ErrNetwork), 2, nil},
		{"gives up", 5, transient(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := redisBackoff.do(ctx, func() error { return transient(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
