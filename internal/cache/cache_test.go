package cache

import (
	"testing"
	"time"

	"gapfill/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("cars", "bielik-1.5b-gguf", "Sprzedam [GAP:1] samochód.")
	b := Key("cars", "bielik-1.5b-gguf", "Sprzedam [GAP:1] samochód.")
	if a != b {
		t.Error("Expected identical keys for identical content")
	}

	if Key("cars", "bielik-1.5b-gguf", "inny tekst") == a {
		t.Error("Expected different keys for different text")
	}
	if Key("real_estate", "bielik-1.5b-gguf", "Sprzedam [GAP:1] samochód.") == a {
		t.Error("Expected different keys for different domains")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected hit with value v, got %q found=%v", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestNew(t *testing.T) {
	c, err := New(model.CacheConfig{Enabled: false})
	if err != nil || c != nil {
		t.Errorf("Expected nil cache when disabled, got %v, %v", c, err)
	}

	c, err = New(model.CacheConfig{Enabled: true, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("Expected memory cache without a dir, got %T", c)
	}

	c, err = New(model.CacheConfig{Enabled: true, TTL: time.Minute, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := c.(*LayeredCache); !ok {
		t.Errorf("Expected layered cache with a dir, got %T", c)
	}

	if _, err := New(model.CacheConfig{Enabled: true}); err == nil {
		t.Error("Expected error for zero TTL")
	}
}
