package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateActivity(ctx context.Context, input CreateActivityInput) (*Activity, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("date is required")
	}
	if input.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if err := validateAgeRange(input.MinAge, input.MaxAge); err != nil {
		return nil, err
	}

	a := Activity{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		ScheduledAt: input.ScheduledAt,
		Capacity:    input.Capacity,
		MinAge:      input.MinAge,
		MaxAge:      input.MaxAge,
	}

	if err := s.repo.CreateActivity(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, input UpdateActivityInput) (*Activity, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if err := validateAgeRange(input.MinAge, input.MaxAge); err != nil {
		return nil, err
	}

	a, err := s.repo.GetActivityByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	a.Name = input.Name
	a.Description = input.Description
	a.ScheduledAt = input.ScheduledAt
	a.Capacity = input.Capacity
	a.MinAge = input.MinAge
	a.MaxAge = input.MaxAge

	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteActivity(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrActivityNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Activity, error) {
	return s.repo.GetActivityByID(ctx, id)
}

// Occupancy returns the number of enrollments in the activity.
func (s *Service) Occupancy(ctx context.Context, activityID string) (int, error) {
	return s.repo.CountEnrollments(ctx, activityID)
}

// Available returns capacity minus occupancy.
func (s *Service) Available(ctx context.Context, a *Activity) (int, error) {
	occupancy, err := s.repo.CountEnrollments(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	return a.Capacity - occupancy, nil
}

// ListActivities returns activities with their derived occupancy numbers.
func (s *Service) ListActivities(ctx context.Context, filter ListFilter) ([]WithOccupancy, error) {
	activities, err := s.repo.ListActivities(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]WithOccupancy, 0, len(activities))
	for _, a := range activities {
		occupancy, err := s.repo.CountEnrollments(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, WithOccupancy{
			Activity:  a,
			Occupancy: occupancy,
			Available: a.Capacity - occupancy,
		})
	}
	return items, nil
}

func validateAgeRange(minAge, maxAge *int) error {
	for _, bound := range []*int{minAge, maxAge} {
		if bound != nil && (*bound < MinAgeBound || *bound > MaxAgeBound) {
			return fmt.Errorf("%w: bounds must be within [%d, %d]", ErrInvalidAgeRange, MinAgeBound, MaxAgeBound)
		}
	}
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		return fmt.Errorf("%w: minimum age exceeds maximum age", ErrInvalidAgeRange)
	}
	return nil
}
