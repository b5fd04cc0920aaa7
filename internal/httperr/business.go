package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes exposed in the error_code field.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeBadRequest        = "BAD_REQUEST"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidPhone      = "INVALID_PHONE"
	CodeDuplicateCustomer = "DUPLICATE_CUSTOMER"
	CodePlanLimitReached  = "PLAN_LIMIT_REACHED"
	CodeSlotConflict      = "SLOT_CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeBadRequest:        http.StatusBadRequest,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeInvalidPhone:      http.StatusBadRequest,
	CodeDuplicateCustomer: http.StatusConflict,
	CodePlanLimitReached:  http.StatusForbidden,
	CodeSlotConflict:      http.StatusConflict,
	CodeInternal:          http.StatusInternalServerError,
}

// Error is a classified failure that crosses the use case boundary.
// Everything except CodeInternal is an expected, client-side outcome.
type Error struct {
	Code    string
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status associated with the code.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// PlanLimitDetails is attached to PLAN_LIMIT_REACHED.
type PlanLimitDetails struct {
	Plan    string `json:"plan"`
	Limit   int64  `json:"limit"`
	Current int64  `json:"current"`
}

func New(code, message string) error {
	return &Error{Code: code, Message: message}
}

func ErrBadRequest(message string) error {
	return New(CodeBadRequest, message)
}

func ErrForbidden(message string) error {
	return New(CodeForbidden, message)
}

func ErrNotFound(message string) error {
	return New(CodeNotFound, message)
}

func ErrInvalidPhone() error {
	return New(CodeInvalidPhone, "phone must have at least 8 digits")
}

func ErrDuplicateCustomer() error {
	return New(CodeDuplicateCustomer, "a customer with this phone already exists")
}

func ErrSlotConflict() error {
	return New(CodeSlotConflict, "the selected slot is no longer available, refresh availability")
}

func ErrPlanLimit(plan string, limit, current int64) error {
	return &Error{
		Code:    CodePlanLimitReached,
		Message: "customer limit reached for the current plan",
		Details: PlanLimitDetails{Plan: plan, Limit: limit, Current: current},
	}
}

// ErrInternal wraps an infrastructure failure. The cause is logged, never sent.
func ErrInternal(cause error) error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// CodeOf returns the code carried by err, or CodeInternal for unclassified errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
