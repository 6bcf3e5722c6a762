package errors

import (
	stderrors "errors"
	"fmt"
)

// Category groups error codes by the part of the program that raised them.
type Category string

const (
	CategoryUpload Category = "upload"
	CategoryConfig Category = "config"
	CategoryServer Category = "server"
	CategoryCLI    Category = "cli"
)

// AppError is a coded error with an explanation and a fix hint.
type AppError struct {
	// Code is the registered identifier (e.g., "E200").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Field names the configuration key or input the error is about.
	Field string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Wrapped
}

// WithField records the key or input the error is about.
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AppError) WithSuggestion(s string) *AppError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *AppError) WithDetail(d string) *AppError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AppError) Wrap(err error) *AppError {
	e.Wrapped = err
	return e
}

// New creates an AppError from a registered error code.
func New(code string) *AppError {
	template, ok := GetTemplate(code)
	if !ok {
		return &AppError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AppError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded AppError with a formatted message.
func Newf(category Category, format string, args ...any) *AppError {
	return &AppError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as an AppError, wrapping it under code unless it
// already is one.
func FromError(err error, code string) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae
	}
	return New(code).Wrap(err)
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var ae *AppError
		if !stderrors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Wrapped
	}
	return false
}
