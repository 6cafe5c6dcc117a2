package services

import "errors"

var (
	ErrStoreClosed         = errors.New("the store is closed")
	ErrBelowMinimum        = errors.New("order total is below the store minimum")
	ErrCouponNotApplicable = errors.New("coupon cannot be applied to this order")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNotOrderable        = errors.New("product cannot be ordered directly")
	ErrSessionNotFound     = errors.New("configuration session not found or expired")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidInput        = errors.New("invalid input")
)
