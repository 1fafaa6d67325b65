package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as the unwrap targets of the typed errors below.
// Callers classify errors with errors.Is against these values.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsRequired     = errors.New("value is required")
	ErrTransitionDenied    = errors.New("transition denied")
	ErrReasonRequired      = errors.New("reason required")
	ErrDriverUnavailable   = errors.New("driver unavailable")
	ErrReferentialConflict = errors.New("referential conflict")
)

// sanitize collapses newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates that a requested object does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError indicates that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// TransitionDeniedKind discriminates the three refusal reasons of the status
// transition policy. Each kind demands a different corrective action from the
// operator, so they must stay distinguishable all the way to the user.
type TransitionDeniedKind int

const (
	// TransitionDeniedMissingDriver: a move into dispatch was requested while
	// the order has no assigned delivery person.
	TransitionDeniedMissingDriver TransitionDeniedKind = iota + 1

	// TransitionDeniedInFlightLock: the order is dispatched with a driver and
	// the requested target is neither delivered nor cancelled.
	TransitionDeniedInFlightLock

	// TransitionDeniedRoleInsufficient: the actor's role does not include the
	// requested target in its transition set.
	TransitionDeniedRoleInsufficient

	// TransitionDeniedEditLocked: a full edit was requested outside of the
	// Borrador/En Revisión statuses.
	TransitionDeniedEditLocked
)

// TransitionDeniedError is returned when the status transition policy refuses
// a requested change. Detail carries the user-facing explanation naming the
// specific blocking condition.
type TransitionDeniedError struct {
	Kind    TransitionDeniedKind
	OrderID string
	Detail  string
}

// NewTransitionDeniedError creates a TransitionDeniedError for the given order and kind.
func NewTransitionDeniedError(kind TransitionDeniedKind, orderID, detail string) *TransitionDeniedError {
	return &TransitionDeniedError{Kind: kind, OrderID: orderID, Detail: detail}
}

func (e *TransitionDeniedError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrTransitionDenied, e.OrderID, e.Detail))
}

func (e *TransitionDeniedError) Unwrap() error {
	return ErrTransitionDenied
}

// ReasonRequiredError is returned when a cancellation or rejection is
// attempted with an empty or whitespace-only reason.
type ReasonRequiredError struct {
	Action string
}

// NewReasonRequiredError creates a ReasonRequiredError for the named action.
func NewReasonRequiredError(action string) *ReasonRequiredError {
	return &ReasonRequiredError{Action: action}
}

func (e *ReasonRequiredError) Error() string {
	return sanitize(fmt.Sprintf("%s: se requiere un motivo para %s", ErrReasonRequired, e.Action))
}

func (e *ReasonRequiredError) Unwrap() error {
	return ErrReasonRequired
}

// DriverUnavailableError is returned when a delivery assignment targets a
// driver marked unavailable on the assignment date.
type DriverUnavailableError struct {
	Name string
	Date string
}

// NewDriverUnavailableError creates a DriverUnavailableError for the named driver and date.
func NewDriverUnavailableError(name, date string) *DriverUnavailableError {
	return &DriverUnavailableError{Name: name, Date: date}
}

func (e *DriverUnavailableError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s no está disponible el %s", ErrDriverUnavailable, e.Name, e.Date))
}

func (e *DriverUnavailableError) Unwrap() error {
	return ErrDriverUnavailable
}

// ReferentialConflictError is returned when a configuration entity cannot be
// deleted because existing orders still reference it.
type ReferentialConflictError struct {
	EntityKind string
	ID         string
}

// NewReferentialConflictError creates a ReferentialConflictError for the given entity.
func NewReferentialConflictError(entityKind, id string) *ReferentialConflictError {
	return &ReferentialConflictError{EntityKind: entityKind, ID: id}
}

func (e *ReferentialConflictError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s %s está siendo usado en pedidos existentes",
		ErrReferentialConflict, e.EntityKind, e.ID))
}

func (e *ReferentialConflictError) Unwrap() error {
	return ErrReferentialConflict
}
