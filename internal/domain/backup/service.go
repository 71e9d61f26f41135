package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"asociacion-app-go/pkg/logger"
)

// Transfer delivers a finished snapshot off-host. Implementations live in
// internal/transfer.
type Transfer interface {
	Upload(ctx context.Context, name string, data []byte) error
	Name() string
}

type Service struct {
	repo     Repository
	transfer Transfer
	log      logger.Logger
	now      func() time.Time
}

// NewService builds the backup service. transfer may be nil, in which case
// snapshots are produced but not delivered anywhere.
func NewService(repo Repository, transfer Transfer, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		transfer: transfer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Export reads the whole store into a versioned snapshot.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	contents, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	return &Snapshot{
		Version:           SnapshotVersion,
		ExportedAt:        s.now(),
		Members:           toSnapshotMembers(contents.Members),
		Beneficiaries:     contents.Beneficiaries,
		Activities:        contents.Activities,
		Enrollments:       contents.Enrollments,
		Requests:          toSnapshotRequests(contents.Requests),
		RequestDependents: contents.RequestDependents,
	}, nil
}

// ExportJSON renders the snapshot as indented JSON.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// Import restores a snapshot into an empty store. Fails with ErrStoreNotEmpty
// if any entity already exists, and with ErrUnsupportedVersion for snapshots
// written by a newer format.
func (s *Service) Import(ctx context.Context, data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Version > SnapshotVersion || snapshot.Version < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snapshot.Version)
	}

	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, ErrStoreNotEmpty
	}

	contents := Contents{
		Members:           fromSnapshotMembers(snapshot.Members),
		Beneficiaries:     snapshot.Beneficiaries,
		Activities:        snapshot.Activities,
		Enrollments:       snapshot.Enrollments,
		Requests:          fromSnapshotRequests(snapshot.Requests),
		RequestDependents: snapshot.RequestDependents,
	}
	if err := s.repo.ImportAll(ctx, &contents); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	return &snapshot, nil
}

// RunAsync fires a best-effort snapshot on a detached goroutine: export,
// then deliver through the configured transfer. Failures are logged and
// swallowed; the triggering action (logout) never sees them.
func (s *Service) RunAsync() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("backup: background snapshot panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		data, err := s.ExportJSON(ctx)
		if err != nil {
			s.log.Error("backup: background export failed", "err", err)
			return
		}

		if s.transfer == nil {
			s.log.Debug("backup: no transfer configured, snapshot discarded", "bytes", len(data))
			return
		}

		name := fmt.Sprintf("backup-%s.json", s.now().Format("20060102-150405"))
		if err := s.transfer.Upload(ctx, name, data); err != nil {
			s.log.Error("backup: delivery failed", "transfer", s.transfer.Name(), "name", name, "err", err)
			return
		}

		s.log.Info("backup: snapshot delivered", "transfer", s.transfer.Name(), "name", name, "bytes", len(data))
	}()
}
