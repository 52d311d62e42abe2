package services

import (
	"errors"
	"fmt"
)

// ErrorCode classifies why an evaluation could not produce a result.
type ErrorCode string

const (
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	CodeUnknownProfile    ErrorCode = "UNKNOWN_PROFILE"
	CodeCompletionFailed  ErrorCode = "COMPLETION_FAILED"
	CodeMalformedOutput   ErrorCode = "MALFORMED_OUTPUT"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

type EvaluationError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func NewError(code ErrorCode, message string, err error) *EvaluationError {
	return &EvaluationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *EvaluationError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewMissingCredentialError(provider string) *EvaluationError {
	return NewError(CodeMissingCredential, fmt.Sprintf("API key for %s is not configured", provider), nil)
}

func NewUnknownProfileError(version string) *EvaluationError {
	return NewError(CodeUnknownProfile, fmt.Sprintf("unknown prompt profile: %s", version), nil)
}

func NewCompletionError(err error) *EvaluationError {
	return NewError(CodeCompletionFailed, "completion service request failed", err)
}

func NewMalformedOutputError(err error) *EvaluationError {
	return NewError(CodeMalformedOutput, "model returned malformed output", err)
}

func NewNotFoundError(message string) *EvaluationError {
	return NewError(CodeNotFound, message, nil)
}

// ErrorCodeOf returns the code carried by err, or CodeInternal when err is
// not an evaluation error.
func ErrorCodeOf(err error) ErrorCode {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Code
	}
	return CodeInternal
}
