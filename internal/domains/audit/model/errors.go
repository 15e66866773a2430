package model

import "errors"

const (
	ErrCodeEntryNotFound = "AUD001"
	ErrCodeEntryHidden   = "AUD002"
)

var (
	ErrEntryNotFound = errors.New("audit entry not found")
	ErrEntryHidden   = errors.New("audit entry is not visible to this role")
)

type AuditError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuditError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

func NewAuditError(code, message string, err error) *AuditError {
	return &AuditError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
