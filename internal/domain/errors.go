package domain

import "errors"

var (
	ErrTransport          = errors.New("transport error")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrAlreadySubscribed  = errors.New("subscriber already exists")
	ErrStoreIO            = errors.New("subscriber store i/o error")
	ErrMalformedEvent     = errors.New("malformed webhook event")
	ErrContentUnavailable = errors.New("content unavailable")
)
