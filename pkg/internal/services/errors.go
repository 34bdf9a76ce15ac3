package services

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidOptions  = errors.New("poll requires at least two non-blank options")
	ErrInvalidQuestion = errors.New("poll question cannot be blank")
	ErrPollNotFound    = errors.New("poll not found")
	ErrPollInactive    = errors.New("poll is no longer accepting responses")
	ErrInvalidOption   = errors.New("selected option is out of range")
)
