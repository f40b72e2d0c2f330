package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key, err := fs.Write(context.Background(), "briefs/brief_x.json", []byte(`{"id":"brief_x"}`))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "briefs/brief_x.json" {
		t.Fatalf("key = %q", key)
	}

	data, err := fs.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte(`{"id":"brief_x"}`)) {
		t.Fatalf("data = %s", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	for _, key := range []string{"../escape.json", "", "."} {
		if _, err := fs.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatalf("expected error for empty base path")
	}
}

func TestNilFileStore(t *testing.T) {
	var fs *FileStore
	if fs.BasePath() != "" {
		t.Fatalf("nil BasePath should be empty")
	}
	if _, err := fs.Write(context.Background(), "k", nil); err == nil {
		t.Fatalf("nil Write should error")
	}
	if _, err := fs.Read(context.Background(), "k"); err == nil {
		t.Fatalf("nil Read should error")
	}
}
