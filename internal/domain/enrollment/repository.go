package enrollment

import (
	"context"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/member"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateEnrollment(ctx context.Context, e *Enrollment) error
	GetEnrollmentByID(ctx context.Context, id string) (*Enrollment, error)
	// GetByAttendee finds the enrollment for the exact (member, activity,
	// attendee) combination; beneficiaryID nil matches the member's own
	// enrollment.
	GetByAttendee(ctx context.Context, memberID, activityID string, beneficiaryID *string) (*Enrollment, error)
	DeleteEnrollment(ctx context.Context, id string) (bool, error)
	UpdateEnrollment(ctx context.Context, e *Enrollment) error
	CountByActivity(ctx context.Context, activityID string) (int, error)
	ListByActivity(ctx context.Context, activityID string) ([]RosterEntry, error)
	ListByMember(ctx context.Context, memberID string) ([]RosterEntry, error)
}

// Activities is the slice of the activity store the enrollment engine needs.
type Activities interface {
	GetActivityByID(ctx context.Context, id string) (*activity.Activity, error)
}

// Members is the slice of the identity store the enrollment engine needs.
type Members interface {
	GetMemberByID(ctx context.Context, id string) (*member.Member, error)
	GetBeneficiary(ctx context.Context, memberID, beneficiaryID string) (*member.Beneficiary, error)
}
