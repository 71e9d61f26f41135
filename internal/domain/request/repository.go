package request

import (
	"context"

	"asociacion-app-go/internal/domain/member"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// CreateRequest persists the request and its dependents atomically.
	CreateRequest(ctx context.Context, r *MembershipRequest, dependents []RequestDependent) error
	GetRequestByID(ctx context.Context, id string) (*MembershipRequest, error)
	GetRequestByToken(ctx context.Context, token string) (*MembershipRequest, error)
	UpdateRequest(ctx context.Context, r *MembershipRequest) error
	// ReplaceDependents deletes the request's dependent list and re-inserts
	// the given one.
	ReplaceDependents(ctx context.Context, requestID string, dependents []RequestDependent) error
	ListDependents(ctx context.Context, requestID string) ([]RequestDependent, error)
	ListRequests(ctx context.Context, status string) ([]WithDependents, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	// Approval-time account creation. These live here so the whole
	// pending-to-approved conversion commits in one transaction.
	MaxMemberNumber(ctx context.Context) (int, error)
	LoginNameExists(ctx context.Context, loginName string) (bool, error)
	CreateAccount(ctx context.Context, m *member.Member) error
	CreateBeneficiaries(ctx context.Context, beneficiaries []member.Beneficiary) error
}
