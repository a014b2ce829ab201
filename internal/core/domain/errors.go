package domain

import "errors"

// Error taxonomy shared by the core and the HTTP layer.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("access forbidden")
	ErrUnavailable  = errors.New("store unavailable")
)

// Store-level errors. They match their taxonomy class through errors.Is.
var (
	ErrAccountNotFound = &kindError{msg: "account not found", kind: ErrNotFound}
	ErrEmailTaken      = &kindError{msg: "email already registered", kind: ErrConflict}
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// IsDomainError reports whether err belongs to the taxonomy above.
func IsDomainError(err error) bool {
	for _, kind := range []error{ErrInvalidInput, ErrConflict, ErrNotFound, ErrUnauthorized, ErrForbidden, ErrUnavailable} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
