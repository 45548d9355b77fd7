package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

func NewNotFound(format string, a ...interface{}) error {
	return fmt.Errorf(format+": %w", append(a, ErrNotFound)...)
}

func NewConflict(format string, a ...interface{}) error {
	return fmt.Errorf(format+": %w", append(a, ErrConflict)...)
}

func NewValidation(format string, a ...interface{}) error {
	return fmt.Errorf(format+": %w", append(a, ErrValidation)...)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
