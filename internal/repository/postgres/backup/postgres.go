package backup

import (
	"context"

	activitydomain "asociacion-app-go/internal/domain/activity"
	backupdomain "asociacion-app-go/internal/domain/backup"
	enrollmentdomain "asociacion-app-go/internal/domain/enrollment"
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

func (r *PostgresRepository) ExportAll(ctx context.Context) (*backupdomain.Contents, error) {
	var contents backupdomain.Contents
	db := r.db.WithContext(ctx)

	if err := db.Order("joined_at asc").Find(&contents.Members).Error; err != nil {
		return nil, err
	}
	if err := db.Order("beneficiary_number asc").Find(&contents.Beneficiaries).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at asc").Find(&contents.Activities).Error; err != nil {
		return nil, err
	}
	if err := db.Order("enrolled_at asc").Find(&contents.Enrollments).Error; err != nil {
		return nil, err
	}
	if err := db.Order("submitted_at asc").Find(&contents.Requests).Error; err != nil {
		return nil, err
	}
	if err := db.Order("position asc").Find(&contents.RequestDependents).Error; err != nil {
		return nil, err
	}

	return &contents, nil
}

// ImportAll inserts all rows in dependency order so foreign keys resolve:
// members before beneficiaries and enrollments, requests before dependents.
func (r *PostgresRepository) ImportAll(ctx context.Context, contents *backupdomain.Contents) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(contents.Members) > 0 {
			if err := tx.Create(&contents.Members).Error; err != nil {
				return err
			}
		}
		if len(contents.Beneficiaries) > 0 {
			if err := tx.Create(&contents.Beneficiaries).Error; err != nil {
				return err
			}
		}
		if len(contents.Activities) > 0 {
			if err := tx.Create(&contents.Activities).Error; err != nil {
				return err
			}
		}
		if len(contents.Enrollments) > 0 {
			if err := tx.Create(&contents.Enrollments).Error; err != nil {
				return err
			}
		}
		if len(contents.Requests) > 0 {
			if err := tx.Create(&contents.Requests).Error; err != nil {
				return err
			}
		}
		if len(contents.RequestDependents) > 0 {
			if err := tx.Create(&contents.RequestDependents).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) IsEmpty(ctx context.Context) (bool, error) {
	db := r.db.WithContext(ctx)
	for _, model := range []interface{}{
		&memberdomain.Member{},
		&activitydomain.Activity{},
		&enrollmentdomain.Enrollment{},
		&requestdomain.MembershipRequest{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return false, nil
		}
	}
	return true, nil
}
