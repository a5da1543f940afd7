package service

import (
	"errors"
	"fmt"
	"log"

	"dormitory-backend/internal/repository"
)

// Error classes. Handlers map them onto HTTP statuses with errors.Is.
var (
	ErrInvalid      = errors.New("invalid request")
	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("unauthorized")
)

// classified carries a human readable message and unwraps to its class
type classified struct {
	class error
	msg   string
}

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.class }

func invalidf(format string, args ...interface{}) error {
	return &classified{class: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...interface{}) error {
	return &classified{class: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

var (
	ErrRoomFull          = invalidf("room is full")
	ErrGenderMismatch    = invalidf("student gender does not match the room")
	ErrDuplicateName     = invalidf("name is already used in this scope")
	ErrDuplicatePassport = invalidf("passport is already registered")
	ErrRoomNotEmpty      = invalidf("room still has students")
	ErrCapacityTooSmall  = invalidf("capacity cannot be below current occupancy")
	ErrNoDormitory       = forbiddenf("no dormitory is assigned to this admin")
	ErrInvalidCredential = &classified{class: ErrUnauthorized, msg: "invalid credentials"}
)

// ErrNotFound is re-exported so handlers need a single import for error mapping
var ErrNotFound = repository.ErrNotFound

// audit records an action; failures are logged and never fail the caller
func audit(repo *repository.AuditRepository, userID uint, action, details string, payload interface{}) {
	var uid *uint
	if userID != 0 {
		uid = &userID
	}
	if err := repo.CreateAuditLog(uid, action, details, payload); err != nil {
		log.Printf("Warning: failed to write audit log %s: %v", action, err)
	}
}
