package recovery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Purpose identifies the account-state transition a verification key authorizes.
type Purpose string

const (
	PurposeConfirmAccount Purpose = "confirm_account"
	PurposeResetPassword  Purpose = "reset_password"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeConfirmAccount || p == PurposeResetPassword
}

// Action is what a caller wants to do with a pending verification key.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// AccountRecord represents one end-user identity subject to recovery operations.
// The Verification* fields are mutated only by the RecoveryService: Request sets
// them, Resolve clears them. At most one pending key exists per account; minting
// a new one overwrites any prior key.
type AccountRecord struct {
	ID           uuid.UUID
	Email        string // stored normalized to lowercase
	PasswordHash []byte

	EmailVerifiedAt        *time.Time
	PasswordResetAllowedAt *time.Time
	LastLoginAt            *time.Time

	VerificationKey          string
	VerificationPurpose      Purpose
	VerificationIssuedAt     *time.Time
	VerificationReturnTarget string // opaque caller-supplied redirect, never interpreted

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingVerification reports whether a verification key is currently set.
func (a *AccountRecord) HasPendingVerification() bool {
	return a.VerificationKey != ""
}

// ClearVerification resets all verification fields to their idle state.
func (a *AccountRecord) ClearVerification() {
	a.VerificationKey = ""
	a.VerificationPurpose = ""
	a.VerificationIssuedAt = nil
	a.VerificationReturnTarget = ""
}

// CreateAccountParams represents parameters for provisioning an account
type CreateAccountParams struct {
	Email        string
	PasswordHash []byte
}

// AccountRepository defines the storage contract for account records.
// GetByVerificationKey must only match records whose key is currently set,
// and Save must be atomic per record so concurrent writers cannot interleave
// into a half-written row.
type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams) (*AccountRecord, error)
	GetByEmail(ctx context.Context, email string) (*AccountRecord, error)
	GetByVerificationKey(ctx context.Context, key string) (*AccountRecord, error)
	Save(ctx context.Context, record *AccountRecord) error
}

// NormalizeEmail lowercases and trims an email address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
