package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/member"
)

type fakeEnrollmentRepo struct {
	enrollments map[string]*Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[string]*Enrollment)}
}

func (r *fakeEnrollmentRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeEnrollmentRepo) CreateEnrollment(ctx context.Context, e *Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.MemberID == e.MemberID && existing.ActivityID == e.ActivityID &&
			sameAttendee(existing.BeneficiaryID, e.BeneficiaryID) {
			return ErrAlreadyEnrolled
		}
	}
	r.enrollments[e.ID] = e
	return nil
}

func (r *fakeEnrollmentRepo) GetEnrollmentByID(ctx context.Context, id string) (*Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, ErrEnrollmentNotFound
	}
	return e, nil
}

func (r *fakeEnrollmentRepo) GetByAttendee(ctx context.Context, memberID, activityID string, beneficiaryID *string) (*Enrollment, error) {
	for _, e := range r.enrollments {
		if e.MemberID == memberID && e.ActivityID == activityID && sameAttendee(e.BeneficiaryID, beneficiaryID) {
			return e, nil
		}
	}
	return nil, ErrNotEnrolled
}

func (r *fakeEnrollmentRepo) DeleteEnrollment(ctx context.Context, id string) (bool, error) {
	if _, ok := r.enrollments[id]; !ok {
		return false, nil
	}
	delete(r.enrollments, id)
	return true, nil
}

func (r *fakeEnrollmentRepo) UpdateEnrollment(ctx context.Context, e *Enrollment) error {
	if _, ok := r.enrollments[e.ID]; !ok {
		return ErrEnrollmentNotFound
	}
	r.enrollments[e.ID] = e
	return nil
}

func (r *fakeEnrollmentRepo) CountByActivity(ctx context.Context, activityID string) (int, error) {
	count := 0
	for _, e := range r.enrollments {
		if e.ActivityID == activityID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEnrollmentRepo) ListByActivity(ctx context.Context, activityID string) ([]RosterEntry, error) {
	result := make([]RosterEntry, 0)
	for _, e := range r.enrollments {
		if e.ActivityID == activityID {
			result = append(result, RosterEntry{Enrollment: *e})
		}
	}
	return result, nil
}

func (r *fakeEnrollmentRepo) ListByMember(ctx context.Context, memberID string) ([]RosterEntry, error) {
	result := make([]RosterEntry, 0)
	for _, e := range r.enrollments {
		if e.MemberID == memberID {
			result = append(result, RosterEntry{Enrollment: *e})
		}
	}
	return result, nil
}

func sameAttendee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeActivities struct {
	activities map[string]*activity.Activity
}

func (f *fakeActivities) GetActivityByID(ctx context.Context, id string) (*activity.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, activity.ErrActivityNotFound
	}
	return a, nil
}

type fakeMembers struct {
	members       map[string]*member.Member
	beneficiaries map[string]*member.Beneficiary
}

func (f *fakeMembers) GetMemberByID(ctx context.Context, id string) (*member.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return m, nil
}

func (f *fakeMembers) GetBeneficiary(ctx context.Context, memberID, beneficiaryID string) (*member.Beneficiary, error) {
	b, ok := f.beneficiaries[beneficiaryID]
	if !ok || b.MemberID != memberID {
		return nil, member.ErrBeneficiaryNotFound
	}
	return b, nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newTestService(t *testing.T, capacity int) (*Service, *fakeEnrollmentRepo, *fakeActivities, *fakeMembers) {
	t.Helper()

	repo := newFakeEnrollmentRepo()
	activities := &fakeActivities{activities: map[string]*activity.Activity{
		"act-1": {
			ID:          "act-1",
			Name:        "Excursión",
			ScheduledAt: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
			Capacity:    capacity,
		},
	}}
	members := &fakeMembers{
		members: map[string]*member.Member{
			"mem-1": {ID: "mem-1", Name: "Ana García", BirthYear: intPtr(1990)},
			"mem-2": {ID: "mem-2", Name: "Luis Pérez", BirthYear: intPtr(1985)},
		},
		beneficiaries: map[string]*member.Beneficiary{
			"ben-1": {ID: "ben-1", MemberID: "mem-1", Name: "Marta", FirstSurname: "García", BirthYear: 2015},
		},
	}

	svc := NewService(repo, activities, members)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo, activities, members
}

func TestEnrollSelf(t *testing.T) {
	svc, repo, _, _ := newTestService(t, 10)

	e, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if e.BeneficiaryID != nil {
		t.Fatalf("self-enrollment must not carry a beneficiary")
	}
	if repo.enrollments[e.ID] == nil {
		t.Fatalf("enrollment not stored")
	}
}

func TestEnrollBeneficiaryNotOwned(t *testing.T) {
	svc, _, _, _ := newTestService(t, 10)

	_, err := svc.Enroll(context.Background(), EnrollInput{
		MemberID:      "mem-2",
		ActivityID:    "act-1",
		BeneficiaryID: strPtr("ben-1"),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t, 10)
	input := EnrollInput{MemberID: "mem-1", ActivityID: "act-1"}

	if _, err := svc.Enroll(context.Background(), input); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}
	if _, err := svc.Enroll(context.Background(), input); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollSelfAndBeneficiaryAreDistinct(t *testing.T) {
	svc, repo, _, _ := newTestService(t, 10)

	if _, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"}); err != nil {
		t.Fatalf("self enrollment failed: %v", err)
	}
	if _, err := svc.Enroll(context.Background(), EnrollInput{
		MemberID:      "mem-1",
		ActivityID:    "act-1",
		BeneficiaryID: strPtr("ben-1"),
	}); err != nil {
		t.Fatalf("beneficiary enrollment failed: %v", err)
	}
	if len(repo.enrollments) != 2 {
		t.Fatalf("expected two distinct enrollments, got %d", len(repo.enrollments))
	}
}

func TestEnrollActivityFull(t *testing.T) {
	svc, _, _, _ := newTestService(t, 1)

	if _, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"}); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}
	_, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-2", ActivityID: "act-1"})
	if !errors.Is(err, ErrActivityFull) {
		t.Fatalf("expected ErrActivityFull, got %v", err)
	}
}

func TestEnrollActivityPast(t *testing.T) {
	svc, _, activities, _ := newTestService(t, 10)
	activities.activities["act-1"].ScheduledAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"})
	if !errors.Is(err, ErrActivityPast) {
		t.Fatalf("expected ErrActivityPast, got %v", err)
	}
}

func TestEnrollAgeIneligible(t *testing.T) {
	svc, _, activities, _ := newTestService(t, 10)
	activities.activities["act-1"].MinAge = intPtr(18)
	activities.activities["act-1"].MaxAge = intPtr(65)

	// Beneficiary born 2015 is 11 in 2026.
	_, err := svc.Enroll(context.Background(), EnrollInput{
		MemberID:      "mem-1",
		ActivityID:    "act-1",
		BeneficiaryID: strPtr("ben-1"),
	})
	if !errors.Is(err, ErrAgeIneligible) {
		t.Fatalf("expected ErrAgeIneligible, got %v", err)
	}

	// The member born 1990 is 36, inside the band.
	if _, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"}); err != nil {
		t.Fatalf("member within age band refused: %v", err)
	}
}

func TestCancelNotEnrolled(t *testing.T) {
	svc, _, _, _ := newTestService(t, 10)

	err := svc.Cancel(context.Background(), CancelInput{MemberID: "mem-1", ActivityID: "act-1"})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestCancelAfterActivityDate(t *testing.T) {
	svc, repo, activities, _ := newTestService(t, 10)

	e, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"})
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	// Cancellation has no cutoff, even once the activity is over.
	activities.activities["act-1"].ScheduledAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := svc.Cancel(context.Background(), CancelInput{MemberID: "mem-1", ActivityID: "act-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.enrollments[e.ID] != nil {
		t.Fatalf("enrollment not removed")
	}
}

func TestToggleAttendance(t *testing.T) {
	svc, _, _, _ := newTestService(t, 10)

	e, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"})
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	toggled, err := svc.ToggleAttendance(context.Background(), "act-1", e.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !toggled.Attended {
		t.Fatalf("expected attendance on after first toggle")
	}

	toggled, err = svc.ToggleAttendance(context.Background(), "act-1", e.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if toggled.Attended {
		t.Fatalf("expected attendance off after second toggle")
	}
}

func TestToggleAttendanceWrongActivity(t *testing.T) {
	svc, _, _, _ := newTestService(t, 10)

	e, err := svc.Enroll(context.Background(), EnrollInput{MemberID: "mem-1", ActivityID: "act-1"})
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	if _, err := svc.ToggleAttendance(context.Background(), "act-2", e.ID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}
