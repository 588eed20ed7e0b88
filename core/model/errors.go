package model

import "errors"

// Error taxonomy shared by the registry and the station engine. All of
// these are recoverable rejections reported to the caller; none is fatal.
var (
	// ErrCapacityExceeded signals that a bounded pool (users, vehicles or
	// bookings) is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrDuplicateIdentity signals that a user or vehicle ID is already
	// registered.
	ErrDuplicateIdentity = errors.New("identity already registered")
	// ErrNotFound signals a missing user, vehicle, dock or booking, or an
	// ownership mismatch between a vehicle and a user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals an out-of-range start time, non-positive
	// duration or unrecognised charging type.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoAvailableResource signals that no dock satisfies the power,
	// source and overlap constraints for the requested window.
	ErrNoAvailableResource = errors.New("no available dock")
	// ErrInvalidState signals an operation on a booking outside the
	// required lifecycle state.
	ErrInvalidState = errors.New("invalid booking state")
	// ErrCorruptState signals an internal consistency violation, such as a
	// booking referencing a dock the station does not own. Unlike the
	// rejections above it indicates a bug, not a user error.
	ErrCorruptState = errors.New("internal state inconsistency")
)
