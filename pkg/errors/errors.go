// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Order errors
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
	ErrOrderInvalid       = errors.New("order failed validation")
	ErrTotalMismatch      = errors.New("submitted total does not match computed total")
	ErrStepInvalid        = errors.New("current step is incomplete")
	ErrUnknownCurrency    = errors.New("currency option not in catalog")

	// File upload errors
	ErrUploadFailed       = errors.New("file upload failed")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileMissing        = errors.New("file required but not provided")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTOTPRequired       = errors.New("totp code required")
	ErrTOTPInvalid        = errors.New("invalid totp code")

	// Notification errors
	ErrNotificationFailed = errors.New("notification delivery failed")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
