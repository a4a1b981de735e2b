package store

import (
	"bytes"
	"context"
	"testing"
	"time"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, Key("outfit_pipeline_state", "abc"), record{Name: "x", Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got record
	found, err := s.Get(ctx, "outfit_pipeline_state:abc", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	if got.Name != "x" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryStoreMissAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var got record
	found, err := s.Get(ctx, "missing", &got)
	if err != nil || found {
		t.Fatalf("expected clean miss, found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "k", record{Name: "y"}, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ = s.Get(ctx, "k", &got)
	if found {
		t.Error("expected entry gone after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", record{Name: "z"}, 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var got record
	found, err := s.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected entry expired")
	}
}

// Writing the same value twice must persist identical bytes.
func TestMemoryStoreIdempotentWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	v := record{Name: "same", Count: 7}

	if err := s.Set(ctx, "k", v, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	first, _ := s.Raw("k")
	if err := s.Set(ctx, "k", v, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	second, _ := s.Raw("k")

	if !bytes.Equal(first, second) {
		t.Errorf("persisted bytes differ:\n%s\n%s", first, second)
	}
}
