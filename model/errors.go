package model

import (
	"errors"
	"fmt"
)

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrAgentExists        = errors.New("agent already registered")
	ErrDuplicateMatricule = errors.New("matricule already in use")
	ErrDuplicateGameID    = errors.New("game id already in use")
	ErrAbsenceNotFound    = errors.New("absence request not found")
	ErrAbsenceDecided     = errors.New("absence request already decided")
	ErrShiftAlreadyOpen   = errors.New("agent already has an open shift")
	ErrNoOpenShift        = errors.New("agent has no open shift")
	ErrRoleNotFound       = errors.New("role not found")
)

// ValidationError is a rejected user input. It never comes with a state change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err refers to a missing agent, absence or role.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound) || errors.Is(err, ErrAbsenceNotFound) || errors.Is(err, ErrRoleNotFound)
}
