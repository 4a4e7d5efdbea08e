package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")

	ErrRunFull          = errors.New("run is full")
	ErrRunStarted       = errors.New("run has already started")
	ErrRunCompleted     = errors.New("run is completed")
	ErrCapacityTooSmall = errors.New("max participants below current participant count")
	ErrEmptyComment     = errors.New("comment text is empty")
	ErrEmptyPost        = errors.New("post content is empty")
	ErrInvalidInput     = errors.New("invalid input")
)
