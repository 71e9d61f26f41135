package transfer

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPConfig holds the connection settings for an FTP delivery target.
type FTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Dir      string
	Timeout  time.Duration
}

// FTPTransfer uploads snapshots over plain FTP. A fresh connection is opened
// per upload; backups are infrequent enough that pooling is not worth it.
type FTPTransfer struct {
	cfg FTPConfig
}

func NewFTP(cfg FTPConfig) *FTPTransfer {
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &FTPTransfer{cfg: cfg}
}

func (t *FTPTransfer) Name() string { return "ftp" }

func (t *FTPTransfer) Upload(ctx context.Context, name string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(t.cfg.Timeout))
	if err != nil {
		return fmt.Errorf("ftp dial %s: %w", addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(t.cfg.User, t.cfg.Password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}

	remote := path.Join(t.cfg.Dir, path.Base(name))
	if err := conn.Stor(remote, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("ftp store %s: %w", remote, err)
	}
	return nil
}
