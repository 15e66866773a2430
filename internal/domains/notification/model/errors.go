package model

import "errors"

const (
	ErrCodeNotificationNotFound = "NTF001"
	ErrCodeNotARecipient        = "NTF002"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotARecipient        = errors.New("user is not a recipient of this notification")
)

type NotificationError struct {
	Code    string
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func NewNotificationError(code, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
