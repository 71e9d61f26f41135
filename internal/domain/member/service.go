package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ExpiryWindow is the default look-ahead used when listing memberships that
// are about to lapse.
const ExpiryWindow = 30 * 24 * time.Hour

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// CreateAccount registers a new account with a bcrypt-hashed password. The
// plaintext is never stored.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.LoginName = strings.TrimSpace(input.LoginName)

	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.LoginName == "" {
		return nil, fmt.Errorf("login name is required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if input.Role != RoleMember && input.Role != RoleBoard {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}
	if input.ValidThrough.IsZero() {
		return nil, fmt.Errorf("validity date is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := Member{
		ID:           uuid.NewString(),
		Name:         input.Name,
		LoginName:    input.LoginName,
		PasswordHash: string(hash),
		Role:         input.Role,
		ValidThrough: input.ValidThrough,
		BirthYear:    input.BirthYear,
		BirthDate:    input.BirthDate,
		Address:      input.Address,
		PostalCode:   input.PostalCode,
		Locality:     input.Locality,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetMemberByLogin(ctx, m.LoginName)
		if err == nil {
			return ErrDuplicateLogin
		}
		if !errors.Is(err, ErrMemberNotFound) {
			return err
		}
		return tx.CreateMember(ctx, &m)
	})
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Authenticate verifies the credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, loginName, password string) (*Member, error) {
	m, err := s.repo.GetMemberByLogin(ctx, strings.TrimSpace(loginName))
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetMemberByID(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, filter ListFilter) ([]Member, error) {
	return s.repo.ListMembers(ctx, filter)
}

// RenewValidity extends the membership through December 31st, 23:59:59 of the
// current calendar year. Memberships always lapse at year-end regardless of
// when they are renewed.
func (s *Service) RenewValidity(ctx context.Context, memberID string) (*Member, error) {
	var renewed *Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		m, err := tx.GetMemberByID(ctx, memberID)
		if err != nil {
			return err
		}
		m.ValidThrough = EndOfYear(s.now())
		if err := tx.UpdateMember(ctx, m); err != nil {
			return err
		}
		renewed = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renewed, nil
}

// ExpiringSoon lists member accounts whose validity lapses within the window.
func (s *Service) ExpiringSoon(ctx context.Context, window time.Duration) ([]Member, error) {
	members, err := s.repo.ListMembers(ctx, ListFilter{Role: RoleMember})
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]Member, 0, len(members))
	for _, m := range members {
		if m.IsExpiringSoon(now, window) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *Service) GetBeneficiary(ctx context.Context, memberID, beneficiaryID string) (*Beneficiary, error) {
	return s.repo.GetBeneficiary(ctx, memberID, beneficiaryID)
}

func (s *Service) ListBeneficiaries(ctx context.Context, memberID string) ([]Beneficiary, error) {
	return s.repo.ListBeneficiaries(ctx, memberID)
}

// EndOfYear returns December 31st, 23:59:59 of now's calendar year, in UTC.
func EndOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)
}
