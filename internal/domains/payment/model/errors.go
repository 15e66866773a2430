package model

import "errors"

const (
	ErrCodePaymentNotFound = "PAY001"
	ErrCodeInvalidInput    = "PAY002"
	ErrCodeAlreadyReversed = "PAY003"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrAlreadyReversed = errors.New("payment is already reversed")
)

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
