package redisq

import "errors"

var (
	// Store errors.
	ErrNoStore     = errors.New("redisq: no store configured")
	ErrStoreClosed = errors.New("redisq: store closed")

	// ErrEmpty is returned by Store.Pop when no payload arrives within
	// the timeout window. It is a sentinel, never a valid payload.
	ErrEmpty = errors.New("redisq: queue empty")
)
