package recovery

import "errors"

var (
	// ErrAccountNotFound is returned by repositories when no account matches a lookup
	ErrAccountNotFound = errors.New("account not found")

	// ErrKeyNotFound is returned when no account carries the presented verification key
	ErrKeyNotFound = errors.New("verification key not found")

	// ErrPurposeMismatch is returned when a key is resolved against the wrong purpose
	ErrPurposeMismatch = errors.New("verification purpose mismatch")

	// ErrKeyExpired is returned when a verification key is past its time-to-live
	ErrKeyExpired = errors.New("verification key has expired")

	// ErrAlreadyConsumed is returned when cancelling a reset that was already used to log in
	ErrAlreadyConsumed = errors.New("verification key has already been consumed")

	// ErrDeliveryFailed is returned when the verification notice could not be delivered.
	// The minted key stays persisted so a resend can reuse it.
	ErrDeliveryFailed = errors.New("failed to deliver verification notice")

	// ErrCryptoUnavailable is returned when the secure random source fails.
	// No state is persisted when this happens.
	ErrCryptoUnavailable = errors.New("secure random source unavailable")

	// ErrDuplicateEmail is returned when creating an account with an email that already exists
	ErrDuplicateEmail = errors.New("email already registered")
)
