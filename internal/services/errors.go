package services

import "errors"

var (
	// ErrInvalidRequest means a required field was missing; the caller must resupply it.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDispatchFailed means the email provider was unreachable or rejected the message.
	// Retrying the operation is safe.
	ErrDispatchFailed = errors.New("email dispatch failed")
)
