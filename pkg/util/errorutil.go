package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the SLA evaluation domain.
const (
	CodeInvalidRange    = "INVALID_RANGE"
	CodeUnresolvedIssue = "UNRESOLVED_ISSUE"
	CodeUnknownPriority = "UNKNOWN_PRIORITY"
	CodeHolidayFetch    = "HOLIDAY_FETCH_FAILED"
)

// Generic transport-level error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidRange reports a resolution timestamp earlier than creation, or any
// reversed date range handed to the calendar.
func NewInvalidRange(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidRange, message, http.StatusUnprocessableEntity, details)
}

// NewUnresolvedIssue reports an issue without a resolution timestamp presented
// to the evaluator.
func NewUnresolvedIssue(issueID string) error {
	return NewDomainError(CodeUnresolvedIssue, "issue has no resolution timestamp", http.StatusUnprocessableEntity,
		map[string]any{"issue_id": issueID})
}

// NewUnknownPriority reports a priority outside the configured policy table.
func NewUnknownPriority(priority string) error {
	return NewDomainError(CodeUnknownPriority, fmt.Sprintf("priority %q not in SLA policy", priority),
		http.StatusUnprocessableEntity, map[string]any{"priority": priority})
}

// NewHolidayFetch reports an unreachable or malformed remote holiday source.
func NewHolidayFetch(country string, year int, err error) error {
	return &DomainError{
		Code:       CodeHolidayFetch,
		Message:    fmt.Sprintf("holiday fetch failed for %s/%d", country, year),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"country": country, "year": year},
		Err:        err,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf returns the domain error code, or an empty string for nil or foreign errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
