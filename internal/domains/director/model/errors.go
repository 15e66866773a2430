package model

import "errors"

const (
	ErrCodeUserNotFound       = "DIR001"
	ErrCodeInvalidCredentials = "DIR002"
	ErrCodeDuplicateUsername  = "DIR003"
	ErrCodeAccountDisabled    = "DIR004"
	ErrCodeInvalidInput       = "DIR005"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrAccountDisabled    = errors.New("account is deactivated")
)

type DirectorError struct {
	Code    string
	Message string
	Err     error
}

func (e *DirectorError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DirectorError) Unwrap() error {
	return e.Err
}

func NewDirectorError(code, message string, err error) *DirectorError {
	return &DirectorError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
