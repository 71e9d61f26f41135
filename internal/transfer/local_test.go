package transfer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalDirUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	transfer := NewLocalDir(dir)

	data := []byte(`{"version":1}`)
	if err := transfer.Upload(context.Background(), "backup-20260830-120000.json", data); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dir, "backup-20260830-120000.json"))
	if err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	if string(written) != string(data) {
		t.Fatalf("snapshot content mismatch: %q", written)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the final file, found %d entries", len(entries))
	}
}

func TestLocalDirUploadStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	transfer := NewLocalDir(dir)

	if err := transfer.Upload(context.Background(), "../escape.json", []byte("{}")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); err != nil {
		t.Fatalf("expected file inside the directory: %v", err)
	}
}
