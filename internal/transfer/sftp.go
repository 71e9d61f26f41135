package transfer

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPConfig holds the connection settings for an SFTP delivery target.
type SFTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Dir      string
	Timeout  time.Duration
}

// SFTPTransfer uploads snapshots over SSH.
type SFTPTransfer struct {
	cfg SFTPConfig
}

func NewSFTP(cfg SFTPConfig) *SFTPTransfer {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SFTPTransfer{cfg: cfg}
}

func (t *SFTPTransfer) Name() string { return "sftp" }

func (t *SFTPTransfer) Upload(_ context.Context, name string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	sshConfig := &ssh.ClientConfig{
		User:            t.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(t.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         t.cfg.Timeout,
	}

	sshConn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	defer sshConn.Close()

	client, err := sftp.NewClient(sshConn)
	if err != nil {
		return fmt.Errorf("sftp session: %w", err)
	}
	defer client.Close()

	remote := path.Join(t.cfg.Dir, path.Base(name))
	file, err := client.Create(remote)
	if err != nil {
		return fmt.Errorf("sftp create %s: %w", remote, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("sftp write %s: %w", remote, err)
	}
	return nil
}
