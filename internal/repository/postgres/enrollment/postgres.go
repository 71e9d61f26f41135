package enrollment

import (
	"context"
	"errors"

	enrollmentdomain "asociacion-app-go/internal/domain/enrollment"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(enrollmentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateEnrollment(ctx context.Context, e *enrollmentdomain.Enrollment) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return enrollmentdomain.ErrAlreadyEnrolled
	}
	return err
}

func (r *PostgresRepository) GetEnrollmentByID(ctx context.Context, id string) (*enrollmentdomain.Enrollment, error) {
	var e enrollmentdomain.Enrollment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, enrollmentdomain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) GetByAttendee(ctx context.Context, memberID, activityID string, beneficiaryID *string) (*enrollmentdomain.Enrollment, error) {
	query := r.db.WithContext(ctx).
		Where("member_id = ? AND activity_id = ?", memberID, activityID)
	if beneficiaryID == nil {
		query = query.Where("beneficiary_id IS NULL")
	} else {
		query = query.Where("beneficiary_id = ?", *beneficiaryID)
	}

	var e enrollmentdomain.Enrollment
	if err := query.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, enrollmentdomain.ErrNotEnrolled
		}
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) DeleteEnrollment(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&enrollmentdomain.Enrollment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) UpdateEnrollment(ctx context.Context, e *enrollmentdomain.Enrollment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *PostgresRepository) CountByActivity(ctx context.Context, activityID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrollmentdomain.Enrollment{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

type rosterRow struct {
	enrollmentdomain.Enrollment
	MemberName        string  `gorm:"column:member_name"`
	BeneficiaryName   *string `gorm:"column:beneficiary_name"`
	BeneficiaryFirst  *string `gorm:"column:beneficiary_first_surname"`
	BeneficiarySecond *string `gorm:"column:beneficiary_second_surname"`
}

func (r *PostgresRepository) ListByActivity(ctx context.Context, activityID string) ([]enrollmentdomain.RosterEntry, error) {
	return r.listRoster(ctx, "enrollments.activity_id = ?", activityID)
}

func (r *PostgresRepository) ListByMember(ctx context.Context, memberID string) ([]enrollmentdomain.RosterEntry, error) {
	return r.listRoster(ctx, "enrollments.member_id = ?", memberID)
}

func (r *PostgresRepository) listRoster(ctx context.Context, condition string, arg string) ([]enrollmentdomain.RosterEntry, error) {
	var rows []rosterRow
	err := r.db.WithContext(ctx).
		Table("enrollments").
		Select(`enrollments.*,
			members.name AS member_name,
			beneficiaries.name AS beneficiary_name,
			beneficiaries.first_surname AS beneficiary_first_surname,
			beneficiaries.second_surname AS beneficiary_second_surname`).
		Joins("join members on members.id = enrollments.member_id").
		Joins("left join beneficiaries on beneficiaries.id = enrollments.beneficiary_id").
		Where(condition, arg).
		Order("enrollments.enrolled_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]enrollmentdomain.RosterEntry, 0, len(rows))
	for _, row := range rows {
		entry := enrollmentdomain.RosterEntry{
			Enrollment: row.Enrollment,
			MemberName: row.MemberName,
		}
		if row.BeneficiaryName != nil {
			entry.IsBeneficiary = true
			entry.AttendeeName = *row.BeneficiaryName
			if row.BeneficiaryFirst != nil {
				entry.AttendeeName += " " + *row.BeneficiaryFirst
			}
			if row.BeneficiarySecond != nil && *row.BeneficiarySecond != "" {
				entry.AttendeeName += " " + *row.BeneficiarySecond
			}
		} else {
			entry.AttendeeName = row.MemberName
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
