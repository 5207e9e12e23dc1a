package services

import "fmt"

// AppError carries the HTTP status a failure maps to. Store-layer errors are
// wrapped here before they reach a handler; gorm errors never leak to the
// client, and ownership failures are reported with the same shape as missing
// entities.
type AppError struct {
	HTTPCode int
	Message  string
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Err: err}
}
