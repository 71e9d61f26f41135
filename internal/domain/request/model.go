package request

import "time"

// Request lifecycle states, as the product shows them.
const (
	StatusPending  = "por_confirmar"
	StatusApproved = "activa"
	StatusRejected = "rechazada"
)

// Accepted payment-method labels. Recorded as free text, never validated
// against a payment gateway.
var PaymentMethods = []string{"bizum", "transferencia", "contado"}

const minBirthYear = 1900

// MembershipRequest is a prospective member's application. The submitted
// password travels with the request so it can be transferred to the account
// created at approval time; it is cleared once the request is resolved.
type MembershipRequest struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	FirstSurname      string     `gorm:"not null" json:"first_surname"`
	SecondSurname     *string    `json:"second_surname,omitempty"`
	Mobile            string     `gorm:"type:varchar(9);not null" json:"mobile"`
	BirthDate         time.Time  `gorm:"type:date;not null" json:"birth_date"`
	HouseholdCount    int        `gorm:"not null" json:"household_count"`
	PaymentMethod     string     `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status            string     `gorm:"type:varchar(20);not null;default:por_confirmar" json:"status"`
	AccessToken       string     `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	SubmittedPassword *string    `json:"-"`
	Address           *string    `gorm:"type:text" json:"address,omitempty"`
	PostalCode        *string    `gorm:"type:varchar(10)" json:"postal_code,omitempty"`
	Locality          *string    `gorm:"type:text" json:"locality,omitempty"`
	SubmittedAt       time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
}

// RequestDependent is a provisional dependent attached to one request,
// promoted 1:1 into a beneficiary when the request is approved.
type RequestDependent struct {
	ID            string  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID     string  `gorm:"type:uuid;index;not null" json:"request_id"`
	Name          string  `gorm:"not null" json:"name"`
	FirstSurname  string  `gorm:"not null" json:"first_surname"`
	SecondSurname *string `json:"second_surname,omitempty"`
	BirthYear     int     `gorm:"not null" json:"birth_year"`
	Position      int     `gorm:"not null;default:0" json:"position"`
}

func (r *MembershipRequest) IsPending() bool {
	return r.Status == StatusPending
}

// DependentInput is one dependent as submitted by the applicant.
type DependentInput struct {
	Name          string
	FirstSurname  string
	SecondSurname string
	BirthYear     int
}

// SubmitInput carries a full application. HouseholdCount-1 dependents are
// required, each fully specified.
type SubmitInput struct {
	Name           string
	FirstSurname   string
	SecondSurname  string
	Mobile         string
	BirthDate      time.Time
	HouseholdCount int
	PaymentMethod  string
	Password       string
	Address        string
	PostalCode     string
	Locality       string
	Dependents     []DependentInput
}

// EditInput replaces a pending request's editable fields and its dependent
// list wholesale.
type EditInput struct {
	RequestID      string
	Name           string
	FirstSurname   string
	SecondSurname  string
	Mobile         string
	BirthDate      time.Time
	HouseholdCount int
	PaymentMethod  string
	Address        string
	PostalCode     string
	Locality       string
	Dependents     []DependentInput
}

// ApprovalResult carries the one-time credential disclosure for the approving
// board user. The plaintext password is not retrievable afterwards.
type ApprovalResult struct {
	Request      *MembershipRequest
	MemberID     string
	MemberNumber string
	LoginName    string
	Password     string
}

// WithDependents pairs a request with its dependents for listings.
type WithDependents struct {
	MembershipRequest
	Dependents []RequestDependent `json:"dependents"`
}
