package cache

import (
	"testing"
	"time"
)

func TestEvidenceKey_Deterministic(t *testing.T) {
	k1 := EvidenceKey("abc123", "interview")
	k2 := EvidenceKey("abc123", "interview")
	k3 := EvidenceKey("abc123", "essay")

	if k1 != k2 {
		t.Error("same inputs must produce the same key")
	}
	if k1 == k3 {
		t.Error("different content modes must produce different keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "value" {
		t.Errorf("Get = %q, %v", got, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key still present")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after delete", c.Len())
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("persisted"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "persisted" {
		t.Errorf("Get = %q, %v", got, found)
	}

	// Already-expired entry must miss and be removed.
	if err := c.Set("expired", []byte("x"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("expired"); found {
		t.Error("expired entry must not be returned")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	// Fresh layered cache over the same dir: memory is cold, disk hits.
	c2 := NewLayeredCache(time.Minute, dir, time.Minute)
	got, found := c2.Get("k")
	if !found || string(got) != "v" {
		t.Fatalf("disk layer miss: %q, %v", got, found)
	}
}
