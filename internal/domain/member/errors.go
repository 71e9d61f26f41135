package member

import "errors"

var (
	ErrDuplicateLogin      = errors.New("login name already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMemberNotFound      = errors.New("member not found")
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
)
