package util

import "errors"

var (
	ErrLevelNotFound       = errors.New("level not found")
	ErrLevelNotUnlocked    = errors.New("level not yet unlocked")
	ErrTableNotAvailable   = errors.New("table not available for this level")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrExpectedQueryFailed = errors.New("expected query failed to execute")
)
