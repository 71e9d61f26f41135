package enrollment

import "time"

// Enrollment binds one attendee to one activity. The attendee is the member
// themselves when BeneficiaryID is nil, otherwise the named beneficiary of
// that member.
type Enrollment struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID      string    `gorm:"type:uuid;index;not null" json:"member_id"`
	ActivityID    string    `gorm:"type:uuid;index;not null" json:"activity_id"`
	BeneficiaryID *string   `gorm:"type:uuid" json:"beneficiary_id,omitempty"`
	EnrolledAt    time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	Attended      bool      `gorm:"not null;default:false" json:"attended"`
}

// RosterEntry is an enrollment with the attendee's display name resolved:
// the beneficiary's full name when the enrollment names one, otherwise the
// member's own name.
type RosterEntry struct {
	Enrollment
	AttendeeName  string `json:"attendee_name"`
	MemberName    string `json:"member_name"`
	IsBeneficiary bool   `json:"is_beneficiary"`
}

// EnrollInput identifies the attendee to enroll. BeneficiaryID nil means the
// member enrolls themselves.
type EnrollInput struct {
	MemberID      string
	ActivityID    string
	BeneficiaryID *string
}

// CancelInput identifies the enrollment to cancel, by attendee.
type CancelInput struct {
	MemberID      string
	ActivityID    string
	BeneficiaryID *string
}
