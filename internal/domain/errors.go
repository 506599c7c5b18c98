package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"

	// Quiz specific errors
	CodeInvalidCategory     ErrorCode = "INVALID_CATEGORY"
	CodeNoAnswers           ErrorCode = "NO_ANSWERS"
	CodeMissingAnswerKey    ErrorCode = "MISSING_ANSWER_KEY"
	CodeAnalysisUnavailable ErrorCode = "ANALYSIS_UNAVAILABLE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
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
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidCategoryError(categoryID string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidCategory,
		Message: fmt.Sprintf("Invalid category ID: %s", categoryID),
		Context: map[string]interface{}{"category_id": categoryID},
	}
}

func NewNoAnswersError() *DomainError {
	return NewError(CodeNoAnswers, "No answers provided.", nil)
}

func NewMissingAnswerKeyError() *DomainError {
	return NewError(CodeMissingAnswerKey, "Server error: Answer key not loaded.", nil)
}

func NewAnalysisUnavailableError(cause error) *DomainError {
	return NewError(CodeAnalysisUnavailable,
		"The AI analysis service is currently unavailable. Please try again later.", cause)
}
