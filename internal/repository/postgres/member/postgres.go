package member

import (
	"context"
	"errors"

	memberdomain "asociacion-app-go/internal/domain/member"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(memberdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateMember(ctx context.Context, m *memberdomain.Member) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return memberdomain.ErrDuplicateLogin
	}
	return err
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) GetMemberByLogin(ctx context.Context, loginName string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	if err := r.db.WithContext(ctx).Where("login_name = ?", loginName).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, m *memberdomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, filter memberdomain.ListFilter) ([]memberdomain.Member, error) {
	query := r.db.WithContext(ctx).Model(&memberdomain.Member{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR login_name ILIKE ? OR member_number ILIKE ?", pattern, pattern, pattern)
	}

	var members []memberdomain.Member
	if err := query.Order("name asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetBeneficiary(ctx context.Context, memberID, beneficiaryID string) (*memberdomain.Beneficiary, error) {
	var b memberdomain.Beneficiary
	err := r.db.WithContext(ctx).
		Where("id = ? AND member_id = ?", beneficiaryID, memberID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrBeneficiaryNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) ListBeneficiaries(ctx context.Context, memberID string) ([]memberdomain.Beneficiary, error) {
	var beneficiaries []memberdomain.Beneficiary
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("beneficiary_number asc").
		Find(&beneficiaries).Error
	if err != nil {
		return nil, err
	}
	return beneficiaries, nil
}
