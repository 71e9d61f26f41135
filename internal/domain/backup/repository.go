package backup

import (
	"context"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/domain/request"
)

// Contents is everything the store holds, in plain domain types.
type Contents struct {
	Members           []member.Member
	Beneficiaries     []member.Beneficiary
	Activities        []activity.Activity
	Enrollments       []enrollment.Enrollment
	Requests          []request.MembershipRequest
	RequestDependents []request.RequestDependent
}

type Repository interface {
	// ExportAll reads every entity table.
	ExportAll(ctx context.Context) (*Contents, error)
	// ImportAll inserts all rows in dependency order, in one transaction.
	ImportAll(ctx context.Context, contents *Contents) error
	// IsEmpty reports whether no members, activities or requests exist.
	IsEmpty(ctx context.Context) (bool, error)
}
