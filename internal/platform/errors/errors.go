package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrCapture      = errors.New("camera capture failed")
	ErrEndOfMedia   = errors.New("end of media")
	ErrQueueFull    = errors.New("queue full")
)
