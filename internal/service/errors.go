package service

import "errors"

// Not-found conditions are reported with the repository sentinels.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidSignature  = errors.New("payment signature mismatch")
	ErrOrderAlreadyPaid  = errors.New("order already paid")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrGateway           = errors.New("payment gateway error")
)
