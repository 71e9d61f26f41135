// Package transfer provides backup-delivery backends: a local directory for
// development, and FTP/SFTP for off-host delivery, selected by configuration.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDir writes snapshots into a directory on the local filesystem.
type LocalDir struct {
	dir string
}

func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

func (t *LocalDir) Name() string { return "local" }

func (t *LocalDir) Upload(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(t.dir, filepath.Base(name))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}
