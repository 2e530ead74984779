package settings

import "errors"

var (
	ErrSettingsNotConfigured = errors.New("organization settings not configured")
	ErrSettingsAlreadyExists = errors.New("organization settings already exist")
	ErrInvalidCycle          = errors.New("invalid payroll cycle")
)
