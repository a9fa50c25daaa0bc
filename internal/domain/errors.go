package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrFeaturedLimit indicates featuring would exceed the three-product cap.
	ErrFeaturedLimit = errors.New("featured limit reached (max 3)")

	// ErrVersionConflict indicates a stale optimistic concurrency token on a
	// snapshot document write.
	ErrVersionConflict = errors.New("snapshot version conflict")

	// ErrNoPendingOrder indicates a checkout operation with no pending order.
	ErrNoPendingOrder = errors.New("no pending order")

	// ErrNotConfirmed indicates a destructive action the confirmer declined.
	ErrNotConfirmed = errors.New("action not confirmed")
)
