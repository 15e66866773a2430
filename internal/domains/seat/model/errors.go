package model

import "errors"

const (
	ErrCodeSeatNotFound     = "SEA001"
	ErrCodeSeatOccupied     = "SEA002"
	ErrCodeSeatTypeMismatch = "SEA003"
)

var (
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatOccupied     = errors.New("seat is already occupied")
	ErrSeatTypeMismatch = errors.New("seat category does not match student category")
)

type SeatError struct {
	Code    string
	Message string
	Err     error
}

func (e *SeatError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SeatError) Unwrap() error {
	return e.Err
}

func NewSeatError(code, message string, err error) *SeatError {
	return &SeatError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
