package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo       Repository
	activities Activities
	members    Members
	now        func() time.Time
}

func NewService(repo Repository, activities Activities, members Members) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		members:    members,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enroll registers the attendee into the activity. Checks run in a fixed
// order: ownership, duplicate, capacity, timing, age. The capacity check and
// the insert run in one transaction so availability never goes negative.
func (s *Service) Enroll(ctx context.Context, input EnrollInput) (*Enrollment, error) {
	m, err := s.members.GetMemberByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	a, err := s.activities.GetActivityByID(ctx, input.ActivityID)
	if err != nil {
		return nil, err
	}

	var birthYear *int
	if input.BeneficiaryID != nil {
		beneficiary, err := s.members.GetBeneficiary(ctx, input.MemberID, *input.BeneficiaryID)
		if err != nil {
			return nil, ErrNotOwner
		}
		birthYear = &beneficiary.BirthYear
	} else {
		birthYear = m.BirthYear
	}

	e := Enrollment{
		ID:            uuid.NewString(),
		MemberID:      input.MemberID,
		ActivityID:    input.ActivityID,
		BeneficiaryID: input.BeneficiaryID,
		EnrolledAt:    s.now(),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetByAttendee(ctx, input.MemberID, input.ActivityID, input.BeneficiaryID)
		if err == nil {
			return ErrAlreadyEnrolled
		}
		if !errors.Is(err, ErrNotEnrolled) {
			return err
		}

		occupancy, err := tx.CountByActivity(ctx, input.ActivityID)
		if err != nil {
			return err
		}
		if a.Capacity-occupancy <= 0 {
			return ErrActivityFull
		}

		if !a.IsUpcoming(s.now()) {
			return ErrActivityPast
		}

		if a.HasAgeRestriction() {
			if birthYear == nil {
				return fmt.Errorf("%w: no consta el año de nacimiento del inscrito", ErrAgeIneligible)
			}
			if ok, reason := a.AgeEligible(*birthYear); !ok {
				return fmt.Errorf("%w: %s", ErrAgeIneligible, reason)
			}
		}

		return tx.CreateEnrollment(ctx, &e)
	})
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// Cancel removes the attendee's enrollment. No time-window restriction:
// members may cancel at any moment before or after the activity.
func (s *Service) Cancel(ctx context.Context, input CancelInput) error {
	if input.BeneficiaryID != nil {
		if _, err := s.members.GetBeneficiary(ctx, input.MemberID, *input.BeneficiaryID); err != nil {
			return ErrNotOwner
		}
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		e, err := tx.GetByAttendee(ctx, input.MemberID, input.ActivityID, input.BeneficiaryID)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteEnrollment(ctx, e.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotEnrolled
		}
		return nil
	})
}

// ToggleAttendance flips the attendance flag on an enrollment. Board-only;
// the authorization check happens at the transport layer.
func (s *Service) ToggleAttendance(ctx context.Context, activityID, enrollmentID string) (*Enrollment, error) {
	var toggled *Enrollment
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		e, err := tx.GetEnrollmentByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if e.ActivityID != activityID {
			return ErrEnrollmentNotFound
		}
		e.Attended = !e.Attended
		if err := tx.UpdateEnrollment(ctx, e); err != nil {
			return err
		}
		toggled = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// Roster lists the activity's enrollments with resolved attendee names.
func (s *Service) Roster(ctx context.Context, activityID string) ([]RosterEntry, error) {
	if _, err := s.activities.GetActivityByID(ctx, activityID); err != nil {
		return nil, err
	}
	return s.repo.ListByActivity(ctx, activityID)
}

// MemberEnrollments lists the member's own and all their beneficiaries'
// enrollments.
func (s *Service) MemberEnrollments(ctx context.Context, memberID string) ([]RosterEntry, error) {
	return s.repo.ListByMember(ctx, memberID)
}
