package model

import "errors"

const (
	ErrCodeStudentNotFound = "STU001"
	ErrCodeInvalidInput    = "STU002"
	ErrCodeAlreadyDeleted  = "STU003"
	ErrCodeNotDeleted      = "STU004"
	ErrCodeStudentDeleted  = "STU005"
	ErrCodePricingNotFound = "STU006"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrAlreadyDeleted  = errors.New("student is already deleted")
	ErrNotDeleted      = errors.New("student is not deleted")
	ErrStudentDeleted  = errors.New("student is deleted")
)

type StudentError struct {
	Code    string
	Message string
	Err     error
}

func (e *StudentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StudentError) Unwrap() error {
	return e.Err
}

func NewStudentError(code, message string, err error) *StudentError {
	return &StudentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
