package activity

import (
	"context"
	"errors"
	"time"

	activitydomain "asociacion-app-go/internal/domain/activity"
	enrollmentdomain "asociacion-app-go/internal/domain/enrollment"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateActivity(ctx context.Context, a *activitydomain.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PostgresRepository) GetActivityByID(ctx context.Context, id string) (*activitydomain.Activity, error) {
	var a activitydomain.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, activitydomain.ErrActivityNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) UpdateActivity(ctx context.Context, a *activitydomain.Activity) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// DeleteActivity removes the activity; enrollments cascade away through the
// foreign key.
func (r *PostgresRepository) DeleteActivity(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&activitydomain.Activity{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListActivities(ctx context.Context, filter activitydomain.ListFilter) ([]activitydomain.Activity, error) {
	query := r.db.WithContext(ctx).Model(&activitydomain.Activity{})
	if filter.UpcomingOnly {
		query = query.Where("scheduled_at > ?", time.Now().UTC()).Order("scheduled_at asc")
	} else {
		query = query.Order("scheduled_at desc")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var activities []activitydomain.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) CountEnrollments(ctx context.Context, activityID string) (int, error) {
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
