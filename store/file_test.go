package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/innermatch/core"
)

func TestFileStore_CRUD(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	exists, err := fs.Exists(ctx, "alice_s1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Fatal("fresh store must not contain key")
	}

	if _, err := fs.Get(ctx, "alice_s1"); !core.IsStoreNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}

	blob := []byte(`{"dim":2,"rows":[[1,0],[0,1]]}`)
	if err := fs.Set(ctx, "alice_s1", blob); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := fs.Get(ctx, "alice_s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Get() = %s, want %s", got, blob)
	}

	// 覆盖写入后读到新值
	blob2 := []byte(`{"dim":2,"rows":[[1,2],[0,1]]}`)
	if err := fs.Set(ctx, "alice_s1", blob2); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, err = fs.Get(ctx, "alice_s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, blob2) {
		t.Errorf("Get() after overwrite = %s, want %s", got, blob2)
	}

	if err := fs.Delete(ctx, "alice_s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	exists, err = fs.Exists(ctx, "alice_s1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("key must be gone after Delete")
	}

	// 删除不存在的 key 不报错
	if err := fs.Delete(ctx, "never_there"); err != nil {
		t.Errorf("Delete() missing key error = %v", err)
	}
}

func TestFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("model dir not created: %v", err)
	}
}

func TestFileStore_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := fs.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only final file, got %v", names)
	}
}
