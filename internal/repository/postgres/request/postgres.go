package request

import (
	"context"
	"errors"

	memberdomain "asociacion-app-go/internal/domain/member"
	requestdomain "asociacion-app-go/internal/domain/request"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(requestdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateRequest(ctx context.Context, req *requestdomain.MembershipRequest, dependents []requestdomain.RequestDependent) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return err
	}
	if len(dependents) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dependents).Error
}

func (r *PostgresRepository) GetRequestByID(ctx context.Context, id string) (*requestdomain.MembershipRequest, error) {
	var req requestdomain.MembershipRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestdomain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) GetRequestByToken(ctx context.Context, token string) (*requestdomain.MembershipRequest, error) {
	var req requestdomain.MembershipRequest
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestdomain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) UpdateRequest(ctx context.Context, req *requestdomain.MembershipRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *PostgresRepository) ReplaceDependents(ctx context.Context, requestID string, dependents []requestdomain.RequestDependent) error {
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&requestdomain.RequestDependent{}).Error
	if err != nil {
		return err
	}
	if len(dependents) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dependents).Error
}

func (r *PostgresRepository) ListDependents(ctx context.Context, requestID string) ([]requestdomain.RequestDependent, error) {
	var dependents []requestdomain.RequestDependent
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("position asc").
		Find(&dependents).Error
	if err != nil {
		return nil, err
	}
	return dependents, nil
}

func (r *PostgresRepository) ListRequests(ctx context.Context, status string) ([]requestdomain.WithDependents, error) {
	query := r.db.WithContext(ctx).Model(&requestdomain.MembershipRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []requestdomain.MembershipRequest
	if err := query.Order("submitted_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}

	items := make([]requestdomain.WithDependents, 0, len(requests))
	for _, req := range requests {
		dependents, err := r.ListDependents(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, requestdomain.WithDependents{MembershipRequest: req, Dependents: dependents})
	}
	return items, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&requestdomain.MembershipRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) MaxMemberNumber(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(member_number::integer), 0) FROM members WHERE member_number IS NOT NULL").
		Scan(&max).Error
	return max, err
}

func (r *PostgresRepository) LoginNameExists(ctx context.Context, loginName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("login_name = ?", loginName).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, m *memberdomain.Member) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return requestdomain.ErrMemberNumberConflict
	}
	return err
}

func (r *PostgresRepository) CreateBeneficiaries(ctx context.Context, beneficiaries []memberdomain.Beneficiary) error {
	if len(beneficiaries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&beneficiaries).Error
}
