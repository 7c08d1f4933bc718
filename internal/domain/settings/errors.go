package settings

import "errors"

// Settings domain errors
var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidCurrency  = errors.New("invalid currency code")
)
