package cache

import (
	"testing"
	"time"
)

func TestMemory_RoundTrip(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	if _, ok, err := c.Get("missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("get: want (v, true), got (%q, %v, %v)", got, ok, err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	c := NewMemory()
	base := time.Now()
	c.now = func() time.Time { return base }

	if err := c.Set("k", []byte("v"), 30*time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	base = base.Add(29 * time.Minute)
	if _, ok, _ := c.Get("k"); !ok {
		t.Error("entry expired before its TTL")
	}

	base = base.Add(2 * time.Minute)
	if _, ok, _ := c.Get("k"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory()
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("k", []byte("v"), 0)
	base = base.Add(1000 * time.Hour)
	if _, ok, _ := c.Get("k"); !ok {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestBadger_RoundTrip(t *testing.T) {
	c, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get("missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set("k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get("k")
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("get: want (payload, true), got (%q, %v, %v)", got, ok, err)
	}
}
