package activity

import "context"

type Repository interface {
	CreateActivity(ctx context.Context, a *Activity) error
	GetActivityByID(ctx context.Context, id string) (*Activity, error)
	UpdateActivity(ctx context.Context, a *Activity) error
	// DeleteActivity removes the activity; its enrollments cascade away.
	DeleteActivity(ctx context.Context, id string) (bool, error)
	ListActivities(ctx context.Context, filter ListFilter) ([]Activity, error)
	// CountEnrollments returns the activity's occupancy: member-self and
	// beneficiary enrollments count toward the same pool.
	CountEnrollments(ctx context.Context, activityID string) (int, error)
}
