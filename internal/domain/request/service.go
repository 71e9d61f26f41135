package request

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"asociacion-app-go/internal/domain/member"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	memberNumberWidth      = 4
	generatedPasswordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	generatedPasswordLen   = 12
	approveAttempts        = 3
)

var mobilePattern = regexp.MustCompile(`^\d{9}$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Submit validates and persists an application with its dependents in one
// transaction. If any dependent fails validation nothing is persisted.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*MembershipRequest, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es obligatoria", ErrInvalidInput)
	}

	r, dependents, err := s.buildRequest(input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		return tx.CreateRequest(ctx, r, dependents)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetByToken(ctx context.Context, token string) (*WithDependents, error) {
	r, err := s.repo.GetRequestByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	dependents, err := s.repo.ListDependents(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	return &WithDependents{MembershipRequest: *r, Dependents: dependents}, nil
}

// List returns requests filtered by status; an empty status returns all.
func (s *Service) List(ctx context.Context, status string) ([]WithDependents, error) {
	return s.repo.ListRequests(ctx, status)
}

func (s *Service) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.repo.CountByStatus(ctx, status)
}

// Approve converts a pending request into a member account plus promoted
// beneficiaries. The member-number scan and the account insert commit in one
// transaction; the unique index on member_number closes the scan-and-increment
// race, and a conflicting approval is retried with a fresh number.
func (s *Service) Approve(ctx context.Context, requestID string) (*ApprovalResult, error) {
	var result *ApprovalResult
	var err error
	for attempt := 0; attempt < approveAttempts; attempt++ {
		result, err = s.approveOnce(ctx, requestID)
		if errors.Is(err, ErrMemberNumberConflict) {
			continue
		}
		break
	}
	return result, err
}

func (s *Service) approveOnce(ctx context.Context, requestID string) (*ApprovalResult, error) {
	var result *ApprovalResult

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		r, err := tx.GetRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !r.IsPending() {
			return ErrAlreadyProcessed
		}

		dependents, err := tx.ListDependents(ctx, r.ID)
		if err != nil {
			return err
		}

		maxNumber, err := tx.MaxMemberNumber(ctx)
		if err != nil {
			return err
		}
		memberNumber := fmt.Sprintf("%0*d", memberNumberWidth, maxNumber+1)

		loginName, err := s.deriveLoginName(ctx, tx, r)
		if err != nil {
			return err
		}

		password := ""
		if r.SubmittedPassword != nil && *r.SubmittedPassword != "" {
			password = *r.SubmittedPassword
		} else {
			password, err = generatePassword()
			if err != nil {
				return err
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		now := s.now()
		birthDate := r.BirthDate
		birthYear := birthDate.Year()
		validThrough := member.EndOfYear(now)

		account := member.Member{
			ID:           uuid.NewString(),
			Name:         fullName(r),
			LoginName:    loginName,
			PasswordHash: string(hash),
			Role:         member.RoleMember,
			MemberNumber: &memberNumber,
			BirthYear:    &birthYear,
			BirthDate:    &birthDate,
			Address:      r.Address,
			PostalCode:   r.PostalCode,
			Locality:     r.Locality,
			JoinedAt:     now,
			ValidThrough: validThrough,
		}
		if err := tx.CreateAccount(ctx, &account); err != nil {
			return err
		}

		beneficiaries := make([]member.Beneficiary, 0, len(dependents))
		for i, d := range dependents {
			beneficiaries = append(beneficiaries, member.Beneficiary{
				ID:                uuid.NewString(),
				MemberID:          account.ID,
				BeneficiaryNumber: fmt.Sprintf("%s-%d", memberNumber, i+1),
				Name:              d.Name,
				FirstSurname:      d.FirstSurname,
				SecondSurname:     d.SecondSurname,
				BirthYear:         d.BirthYear,
				ValidThrough:      validThrough,
			})
		}
		if len(beneficiaries) > 0 {
			if err := tx.CreateBeneficiaries(ctx, beneficiaries); err != nil {
				return err
			}
		}

		r.Status = StatusApproved
		r.ResolvedAt = &now
		r.SubmittedPassword = nil
		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}

		result = &ApprovalResult{
			Request:      r,
			MemberID:     account.ID,
			MemberNumber: memberNumber,
			LoginName:    loginName,
			Password:     password,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject marks a pending request rejected. Terminal, no side effects on
// accounts.
func (s *Service) Reject(ctx context.Context, requestID string) (*MembershipRequest, error) {
	var rejected *MembershipRequest
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		r, err := tx.GetRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !r.IsPending() {
			return ErrAlreadyProcessed
		}
		now := s.now()
		r.Status = StatusRejected
		r.ResolvedAt = &now
		r.SubmittedPassword = nil
		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}
		rejected = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Edit updates a pending request and replaces its dependent list wholesale.
func (s *Service) Edit(ctx context.Context, input EditInput) (*WithDependents, error) {
	submit := SubmitInput{
		Name:           input.Name,
		FirstSurname:   input.FirstSurname,
		SecondSurname:  input.SecondSurname,
		Mobile:         input.Mobile,
		BirthDate:      input.BirthDate,
		HouseholdCount: input.HouseholdCount,
		PaymentMethod:  input.PaymentMethod,
		Address:        input.Address,
		PostalCode:     input.PostalCode,
		Locality:       input.Locality,
		Dependents:     input.Dependents,
	}
	validated, dependents, err := s.buildRequest(submit)
	if err != nil {
		return nil, err
	}

	var edited *WithDependents
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		r, err := tx.GetRequestByID(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if !r.IsPending() {
			return ErrAlreadyProcessed
		}

		r.Name = validated.Name
		r.FirstSurname = validated.FirstSurname
		r.SecondSurname = validated.SecondSurname
		r.Mobile = validated.Mobile
		r.BirthDate = validated.BirthDate
		r.HouseholdCount = validated.HouseholdCount
		r.PaymentMethod = validated.PaymentMethod
		r.Address = validated.Address
		r.PostalCode = validated.PostalCode
		r.Locality = validated.Locality

		for i := range dependents {
			dependents[i].RequestID = r.ID
		}

		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}
		if err := tx.ReplaceDependents(ctx, r.ID, dependents); err != nil {
			return err
		}

		edited = &WithDependents{MembershipRequest: *r, Dependents: dependents}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// buildRequest validates the input and materializes the request row and its
// dependent rows without persisting anything.
func (s *Service) buildRequest(input SubmitInput) (*MembershipRequest, []RequestDependent, error) {
	name := NormalizeName(strings.TrimSpace(input.Name))
	firstSurname := NormalizeName(strings.TrimSpace(input.FirstSurname))
	secondSurname := NormalizeName(strings.TrimSpace(input.SecondSurname))

	if name == "" || firstSurname == "" {
		return nil, nil, fmt.Errorf("%w: el nombre y el primer apellido son obligatorios", ErrInvalidInput)
	}
	if !mobilePattern.MatchString(input.Mobile) {
		return nil, nil, fmt.Errorf("%w: el número de móvil debe tener 9 dígitos", ErrInvalidInput)
	}
	if input.HouseholdCount < 1 {
		return nil, nil, fmt.Errorf("%w: la unidad familiar debe tener al menos 1 miembro", ErrInvalidInput)
	}
	if !isAllowedPayment(input.PaymentMethod) {
		return nil, nil, fmt.Errorf("%w: forma de pago inválida", ErrInvalidInput)
	}

	now := s.now()
	if input.BirthDate.IsZero() || input.BirthDate.After(now) {
		return nil, nil, fmt.Errorf("%w: la fecha de nacimiento no puede ser futura", ErrInvalidInput)
	}
	if input.BirthDate.Year() < minBirthYear {
		return nil, nil, fmt.Errorf("%w: la fecha de nacimiento no es válida", ErrInvalidInput)
	}

	if len(input.Dependents) != input.HouseholdCount-1 {
		return nil, nil, fmt.Errorf("%w: se esperaban %d beneficiarios para una unidad familiar de %d miembros",
			ErrInvalidInput, input.HouseholdCount-1, input.HouseholdCount)
	}

	r := MembershipRequest{
		ID:             uuid.NewString(),
		Name:           name,
		FirstSurname:   firstSurname,
		Mobile:         input.Mobile,
		BirthDate:      input.BirthDate,
		HouseholdCount: input.HouseholdCount,
		PaymentMethod:  input.PaymentMethod,
		Status:         StatusPending,
		AccessToken:    uuid.NewString(),
		SubmittedAt:    now,
	}
	if secondSurname != "" {
		r.SecondSurname = &secondSurname
	}
	if input.Password != "" {
		password := input.Password
		r.SubmittedPassword = &password
	}
	setOptional(&r.Address, input.Address)
	setOptional(&r.PostalCode, input.PostalCode)
	setOptional(&r.Locality, input.Locality)

	dependents := make([]RequestDependent, 0, len(input.Dependents))
	for i, d := range input.Dependents {
		depName := NormalizeName(strings.TrimSpace(d.Name))
		depFirst := NormalizeName(strings.TrimSpace(d.FirstSurname))
		depSecond := NormalizeName(strings.TrimSpace(d.SecondSurname))

		if depName == "" || depFirst == "" {
			return nil, nil, fmt.Errorf("%w: faltan datos del beneficiario %d", ErrInvalidInput, i+1)
		}
		if d.BirthYear < minBirthYear || d.BirthYear > now.Year() {
			return nil, nil, fmt.Errorf("%w: el año de nacimiento del beneficiario %d no es válido", ErrInvalidInput, i+1)
		}

		dep := RequestDependent{
			ID:           uuid.NewString(),
			RequestID:    r.ID,
			Name:         depName,
			FirstSurname: depFirst,
			BirthYear:    d.BirthYear,
			Position:     i + 1,
		}
		if depSecond != "" {
			dep.SecondSurname = &depSecond
		}
		dependents = append(dependents, dep)
	}

	return &r, dependents, nil
}

// deriveLoginName builds the deterministic login for an approved applicant:
// folded given name + first-surname initial + second-surname initial (or "x")
// + birth year, with a numeric suffix appended until unique.
func (s *Service) deriveLoginName(ctx context.Context, tx Repository, r *MembershipRequest) (string, error) {
	base := loginFold(r.Name)
	if initial := loginFold(r.FirstSurname); initial != "" {
		base += initial[:1]
	}
	second := "x"
	if r.SecondSurname != nil {
		if initial := loginFold(*r.SecondSurname); initial != "" {
			second = initial[:1]
		}
	}
	base += second
	base += fmt.Sprintf("%d", r.BirthDate.Year())

	candidate := base
	for counter := 1; ; counter++ {
		exists, err := tx.LoginNameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

func fullName(r *MembershipRequest) string {
	name := r.Name + " " + r.FirstSurname
	if r.SecondSurname != nil && *r.SecondSurname != "" {
		name += " " + *r.SecondSurname
	}
	return name
}

func isAllowedPayment(method string) bool {
	for _, allowed := range PaymentMethods {
		if method == allowed {
			return true
		}
	}
	return false
}

func setOptional(dst **string, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = &value
	}
}

func generatePassword() (string, error) {
	chars := []byte(generatedPasswordChars)
	result := make([]byte, generatedPasswordLen)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		result[i] = chars[n.Int64()]
	}
	return string(result), nil
}
