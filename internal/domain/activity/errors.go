package activity

import "errors"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrInvalidCapacity  = errors.New("capacity must be a positive integer")
	ErrInvalidAgeRange  = errors.New("invalid age range")
)
