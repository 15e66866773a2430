package model

import "errors"

const (
	ErrCodePricingNotFound = "PRC001"
	ErrCodeDuplicateKey    = "PRC002"
	ErrCodeInvalidPrice    = "PRC003"
)

var (
	ErrPricingNotFound = errors.New("pricing not found for this combination")
	ErrDuplicateKey    = errors.New("pricing already exists for this category and plan")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
)

type PricingError struct {
	Code    string
	Message string
	Err     error
}

func (e *PricingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PricingError) Unwrap() error {
	return e.Err
}

func NewPricingError(code, message string, err error) *PricingError {
	return &PricingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
