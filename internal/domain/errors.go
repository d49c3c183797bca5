package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Field validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz flow errors
	CodeInvalidOption      ErrorCode = "INVALID_OPTION"
	CodeSessionComplete    ErrorCode = "SESSION_COMPLETE"
	CodeSessionNotComplete ErrorCode = "SESSION_NOT_COMPLETE"
	CodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	CodeGenerationFailed   ErrorCode = "GENERATION_FAILED"
	CodeReviewFailed       ErrorCode = "REVIEW_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a detail to the error and returns it for chaining.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Quiz session not found: %s", sessionID), nil).
		WithContext("session_id", sessionID)
}

func NewInvalidOptionError(index int, label string) *DomainError {
	return NewError(CodeInvalidOption, fmt.Sprintf("%q is not an option for question %d", label, index+1), nil).
		WithContext("index", index).
		WithContext("label", label)
}

func NewSessionCompleteError() *DomainError {
	return NewError(CodeSessionComplete, "Quiz session is complete and can no longer be answered", nil)
}

func NewSessionNotCompleteError(answered, total int) *DomainError {
	return NewError(CodeSessionNotComplete, "Quiz session must be complete before it can be reviewed", nil).
		WithContext("answered", answered).
		WithContext("total", total)
}

// NewGenerationError reports that the upstream generator produced nothing usable.
func NewGenerationError(message string, cause error) *DomainError {
	return NewError(CodeGenerationFailed, message, cause)
}

// NewReviewError reports that the upstream reviewer failed or returned an invalid shape.
func NewReviewError(message string, cause error) *DomainError {
	return NewError(CodeReviewFailed, message, cause)
}

func hasCode(err error, codes ...ErrorCode) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	for _, c := range codes {
		if domainErr.Code == c {
			return true
		}
	}
	return false
}

// IsGenerationFailure reports whether err is a question generation failure.
func IsGenerationFailure(err error) bool {
	return hasCode(err, CodeGenerationFailed)
}

// IsReviewFailure reports whether err is a review failure.
func IsReviewFailure(err error) bool {
	return hasCode(err, CodeReviewFailed)
}

// IsValidationFailure reports whether err rejects caller input or an invalid transition.
func IsValidationFailure(err error) bool {
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return true
	}
	return hasCode(err,
		CodeValidation, CodeInvalidInput, CodeMissingField, CodeInvalidFormat, CodeOutOfRange,
		CodeInvalidOption, CodeSessionComplete, CodeSessionNotComplete)
}

// IsNotFound reports whether err signals a missing resource.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound, CodeSessionNotFound)
}
