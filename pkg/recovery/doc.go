// Package recovery implements the verification-key workflow that gates
// sensitive account-state transitions: account confirmation and password reset.
//
// A verification key is a single-use opaque token minted from a cryptographically
// random salt, bound to a purpose, delivered to the account's address and
// consumed exactly once by a confirm or cancel request.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-recover/pkg/recovery"
//
//	repo := recovery.NewInMemAccountRepository()
//	service := recovery.NewRecoveryService(
//		repo,
//		notificationManager,
//		"https://app.example.com",
//		recovery.WithKeyTTL(24*time.Hour),
//	)
//
//	// Issue a key. Unknown addresses succeed silently so the endpoint
//	// cannot be used to enumerate accounts.
//	err := service.Request(ctx, "user@example.com", recovery.PurposeResetPassword, "/after-reset")
//
//	// Consume the key from the emailed link.
//	record, err := service.Confirm(ctx, key, recovery.PurposeResetPassword)
//
//	// Or cancel a reset that was never requested.
//	record, err = service.Cancel(ctx, key)
//
// # State machine
//
// Each account is Idle (no key) or Pending (key set, awaiting resolution).
// Request moves Idle to Pending, overwriting any earlier key; Resolve moves
// Pending back to Idle. Keys past their TTL are treated as gone and cleared
// lazily the next time they are looked up.
//
// # Errors
//
// Resolve distinguishes ErrKeyNotFound, ErrPurposeMismatch, ErrKeyExpired and
// ErrAlreadyConsumed so callers can translate each into its own user-facing
// message. Request reports ErrDeliveryFailed without rolling back the minted
// key, and ErrCryptoUnavailable before anything was persisted.
//
// # Related Packages
//
//   - pkg/keygen - key minting and URL-safe encoding
//   - pkg/notification - notice delivery
package recovery
