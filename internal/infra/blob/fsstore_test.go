package blob

import (
	"context"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	ref, err := store.Put(ctx, "ev-1", []byte("disk image"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "disk image" {
		t.Errorf("content = %q, want %q", got, "disk image")
	}
}

func TestPutReplacesContent(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	first, err := store.Put(ctx, "ev-1", []byte("v1"))
	if err != nil {
		t.Fatalf("first Put: %v", err)
	}
	second, err := store.Put(ctx, "ev-1", []byte("v2"))
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if first != second {
		t.Errorf("ref changed on replace: %s vs %s", first, second)
	}
	got, err := store.Get(ctx, second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("content = %q, want replacement", got)
	}
}

func TestGetRejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	for _, ref := range []string{"../etc/passwd", "/etc/passwd", "a/../../b.bin"} {
		if _, err := store.Get(context.Background(), ref); err == nil {
			t.Errorf("ref %q accepted", ref)
		}
	}
}

func TestGetMissingRef(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := store.Get(context.Background(), "nope.bin"); err == nil {
		t.Error("missing blob returned no error")
	}
}

func TestNewFSStoreRequiresRoot(t *testing.T) {
	if _, err := NewFSStore("  "); err == nil {
		t.Error("blank root accepted")
	}
}
