package member

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateMember(ctx context.Context, m *Member) error
	GetMemberByID(ctx context.Context, id string) (*Member, error)
	GetMemberByLogin(ctx context.Context, loginName string) (*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	ListMembers(ctx context.Context, filter ListFilter) ([]Member, error)

	GetBeneficiary(ctx context.Context, memberID, beneficiaryID string) (*Beneficiary, error)
	ListBeneficiaries(ctx context.Context, memberID string) ([]Beneficiary, error)
}
