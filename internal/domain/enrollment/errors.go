package enrollment

import "errors"

var (
	ErrNotOwner           = errors.New("beneficiary does not belong to this member")
	ErrAlreadyEnrolled    = errors.New("attendee is already enrolled in this activity")
	ErrActivityFull       = errors.New("activity has no places available")
	ErrActivityPast       = errors.New("activity has already taken place")
	ErrAgeIneligible      = errors.New("attendee does not meet the activity's age requirements")
	ErrNotEnrolled        = errors.New("attendee is not enrolled in this activity")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)
