package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/domain/request"
	"asociacion-app-go/pkg/logger"
)

type fakeBackupRepo struct {
	contents Contents
	empty    bool
	imported *Contents
}

func (r *fakeBackupRepo) ExportAll(ctx context.Context) (*Contents, error) {
	copied := r.contents
	return &copied, nil
}

func (r *fakeBackupRepo) ImportAll(ctx context.Context, contents *Contents) error {
	r.imported = contents
	return nil
}

func (r *fakeBackupRepo) IsEmpty(ctx context.Context) (bool, error) {
	return r.empty, nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "json")
}

func strPtr(v string) *string { return &v }

func populatedRepo() *fakeBackupRepo {
	return &fakeBackupRepo{
		contents: Contents{
			Members: []member.Member{{
				ID:           "mem-1",
				Name:         "JOSE MUÑOZ",
				LoginName:    "josem1990",
				PasswordHash: "$2a$10$hash",
				Role:         member.RoleMember,
				ValidThrough: time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
			}},
			Beneficiaries: []member.Beneficiary{{
				ID:                "ben-1",
				MemberID:          "mem-1",
				BeneficiaryNumber: "0001-1",
				Name:              "LUCIA",
				FirstSurname:      "MUÑOZ",
				BirthYear:         2015,
			}},
			Activities: []activity.Activity{{
				ID:          "act-1",
				Name:        "Excursión",
				ScheduledAt: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
				Capacity:    20,
			}},
			Enrollments: []enrollment.Enrollment{{
				ID:         "enr-1",
				MemberID:   "mem-1",
				ActivityID: "act-1",
			}},
			Requests: []request.MembershipRequest{{
				ID:                "req-1",
				Name:              "ANA",
				FirstSurname:      "GARCIA",
				Mobile:            "612345678",
				BirthDate:         time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
				HouseholdCount:    1,
				PaymentMethod:     "bizum",
				Status:            request.StatusPending,
				AccessToken:       "11111111-1111-1111-1111-111111111111",
				SubmittedPassword: strPtr("secreta"),
			}},
		},
	}
}

func TestExportJSONCarriesHiddenFields(t *testing.T) {
	repo := populatedRepo()
	svc := NewService(repo, nil, testLogger())

	data, err := svc.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	for _, fragment := range []string{"$2a$10$hash", "11111111-1111-1111-1111-111111111111", "secreta"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("snapshot is missing hidden field value %q", fragment)
		}
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("snapshot does not decode: %v", err)
	}
	if decoded.Version != SnapshotVersion {
		t.Fatalf("expected version %d, got %d", SnapshotVersion, decoded.Version)
	}
}

func TestImportRoundTrip(t *testing.T) {
	source := populatedRepo()
	svc := NewService(source, nil, testLogger())

	data, err := svc.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	target := &fakeBackupRepo{empty: true}
	targetSvc := NewService(target, nil, testLogger())

	if _, err := targetSvc.Import(context.Background(), data); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if target.imported == nil {
		t.Fatalf("nothing imported")
	}

	got := target.imported
	if len(got.Members) != 1 || got.Members[0].PasswordHash != "$2a$10$hash" {
		t.Fatalf("password hash did not survive the round-trip: %+v", got.Members)
	}
	if len(got.Requests) != 1 || got.Requests[0].AccessToken != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("access token did not survive the round-trip: %+v", got.Requests)
	}
	if got.Requests[0].SubmittedPassword == nil || *got.Requests[0].SubmittedPassword != "secreta" {
		t.Fatalf("submitted password did not survive the round-trip")
	}
	if len(got.Enrollments) != 1 || got.Enrollments[0].MemberID != "mem-1" || got.Enrollments[0].ActivityID != "act-1" {
		t.Fatalf("enrollment foreign keys did not survive the round-trip: %+v", got.Enrollments)
	}
}

func TestImportRefusesNonEmptyStore(t *testing.T) {
	source := populatedRepo()
	svc := NewService(source, nil, testLogger())

	data, err := svc.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	target := &fakeBackupRepo{empty: false}
	targetSvc := NewService(target, nil, testLogger())

	if _, err := targetSvc.Import(context.Background(), data); !errors.Is(err, ErrStoreNotEmpty) {
		t.Fatalf("expected ErrStoreNotEmpty, got %v", err)
	}
	if target.imported != nil {
		t.Fatalf("import must not write into a non-empty store")
	}
}

func TestImportRefusesNewerVersion(t *testing.T) {
	target := &fakeBackupRepo{empty: true}
	svc := NewService(target, nil, testLogger())

	data := []byte(`{"version": 99}`)
	if _, err := svc.Import(context.Background(), data); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

type recordingTransfer struct {
	uploaded chan string
	fail     bool
}

func (f *recordingTransfer) Upload(ctx context.Context, name string, data []byte) error {
	if f.fail {
		return errors.New("connection refused")
	}
	f.uploaded <- name
	return nil
}

func (f *recordingTransfer) Name() string { return "fake" }

func TestRunAsyncDeliversSnapshot(t *testing.T) {
	repo := populatedRepo()
	transfer := &recordingTransfer{uploaded: make(chan string, 1)}
	svc := NewService(repo, transfer, testLogger())

	svc.RunAsync()

	select {
	case name := <-transfer.uploaded:
		if !strings.HasPrefix(name, "backup-") || !strings.HasSuffix(name, ".json") {
			t.Fatalf("unexpected snapshot name %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("snapshot was never delivered")
	}
}

func TestRunAsyncSwallowsDeliveryFailure(t *testing.T) {
	repo := populatedRepo()
	transfer := &recordingTransfer{fail: true}
	svc := NewService(repo, transfer, testLogger())

	// Must not panic or block the caller.
	svc.RunAsync()
	time.Sleep(50 * time.Millisecond)
}
