package member

import "time"

const (
	RoleMember = "socio"
	RoleBoard  = "directiva"
)

// Member is an account holder: either a regular member (socio) or a board
// (directiva) user. MemberNumber is assigned only when the account is created
// through an approved membership request.
type Member struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	LoginName    string     `gorm:"not null;uniqueIndex" json:"login_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"type:varchar(16);not null" json:"role"`
	MemberNumber *string    `gorm:"type:varchar(8)" json:"member_number,omitempty"`
	BirthYear    *int       `json:"birth_year,omitempty"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	PostalCode   *string    `gorm:"type:varchar(10)" json:"postal_code,omitempty"`
	Locality     *string    `gorm:"type:text" json:"locality,omitempty"`
	JoinedAt     time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	ValidThrough time.Time  `gorm:"not null" json:"valid_through"`
}

// Beneficiary is a dependent owned by exactly one member. Its validity date
// mirrors the owning member's.
type Beneficiary struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID          string    `gorm:"type:uuid;index;not null" json:"member_id"`
	BeneficiaryNumber string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"beneficiary_number"`
	Name              string    `gorm:"not null" json:"name"`
	FirstSurname      string    `gorm:"not null" json:"first_surname"`
	SecondSurname     *string   `json:"second_surname,omitempty"`
	BirthYear         int       `gorm:"not null" json:"birth_year"`
	ValidThrough      time.Time `gorm:"not null" json:"valid_through"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Member) IsBoard() bool {
	return m.Role == RoleBoard
}

// IsExpired reports whether the membership validity date has passed.
func (m *Member) IsExpired(now time.Time) bool {
	return now.After(m.ValidThrough)
}

// IsExpiringSoon reports whether the membership expires within the window,
// counting only memberships that are still valid.
func (m *Member) IsExpiringSoon(now time.Time, window time.Duration) bool {
	limit := now.Add(window)
	return m.ValidThrough.After(now) && !m.ValidThrough.After(limit)
}

// FullName renders the beneficiary display name used on rosters.
func (b *Beneficiary) FullName() string {
	name := b.Name + " " + b.FirstSurname
	if b.SecondSurname != nil && *b.SecondSurname != "" {
		name += " " + *b.SecondSurname
	}
	return name
}

// CreateAccountInput carries the fields for a directly created account.
type CreateAccountInput struct {
	Name         string
	LoginName    string
	Password     string
	Role         string
	ValidThrough time.Time
	BirthYear    *int
	BirthDate    *time.Time
	Address      *string
	PostalCode   *string
	Locality     *string
}

// ListFilter narrows member listings.
type ListFilter struct {
	Role   string
	Search string
}
