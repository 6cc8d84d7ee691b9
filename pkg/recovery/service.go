package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-recover/pkg/keygen"
	"github.com/tendant/simple-recover/pkg/notification"
)

// RecoveryService orchestrates the verification-key workflow: minting keys,
// delivering them, and resolving confirm/cancel requests against pending state.
// It holds no mutable state of its own; everything flows through the injected
// repository and notification manager.
type RecoveryService struct {
	repo                AccountRepository
	crypto              keygen.Provider
	notificationManager *notification.NotificationManager
	baseURL             string
	keyTTL              time.Duration
	now                 func() time.Time
}

// RecoveryServiceOption defines configuration options
type RecoveryServiceOption func(*RecoveryService)

// WithKeyTTL sets how long a minted key stays valid
func WithKeyTTL(ttl time.Duration) RecoveryServiceOption {
	return func(s *RecoveryService) {
		s.keyTTL = ttl
	}
}

// WithCryptoProvider overrides the default crypto provider
func WithCryptoProvider(p keygen.Provider) RecoveryServiceOption {
	return func(s *RecoveryService) {
		s.crypto = p
	}
}

// WithClock overrides the time source, used by tests to drive expiry
func WithClock(now func() time.Time) RecoveryServiceOption {
	return func(s *RecoveryService) {
		s.now = now
	}
}

// NewRecoveryService creates a new recovery service
func NewRecoveryService(
	repo AccountRepository,
	notificationManager *notification.NotificationManager,
	baseURL string,
	opts ...RecoveryServiceOption,
) *RecoveryService {
	service := &RecoveryService{
		repo:                repo,
		crypto:              keygen.NewDefaultProvider(),
		notificationManager: notificationManager,
		baseURL:             baseURL,
		keyTTL:              24 * time.Hour, // Default 24 hours
		now:                 time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// mintKey produces a fresh opaque verification key. Nothing is persisted here;
// a failed random source aborts before any state changes.
func (s *RecoveryService) mintKey() (string, error) {
	salt, err := s.crypto.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return keygen.EncodeKey(s.crypto.Hash(salt)), nil
}

// Request mints a verification key for the account behind email, persists the
// pending state and dispatches the notice containing the key. Unknown addresses
// get the same nil outcome as known ones so the endpoint cannot be used to
// enumerate accounts. A prior pending key is overwritten.
func (s *RecoveryService) Request(ctx context.Context, email string, purpose Purpose, returnTarget string) error {
	if !purpose.Valid() {
		return fmt.Errorf("unknown verification purpose: %s", purpose)
	}

	record, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			slog.Info("Recovery requested for unknown address", "purpose", purpose)
			return nil
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	key, err := s.mintKey()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	record.VerificationKey = key
	record.VerificationPurpose = purpose
	record.VerificationIssuedAt = &now
	record.VerificationReturnTarget = returnTarget

	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to persist verification key: %w", err)
	}

	if err := s.sendKeyNotice(record); err != nil {
		// The key is already committed; a resend can reuse it.
		slog.Error("Failed to send verification notice", "email", record.Email, "err", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	slog.Info("Verification key issued", "purpose", purpose, "issued_at", now)
	return nil
}

// Resolve validates a presented key against the pending state and applies the
// requested action. Confirm applies the purpose effect and clears the key;
// Cancel clears the key without the effect. Either way the key is consumed
// exactly once: a second Resolve with the same key fails with ErrKeyNotFound.
func (s *RecoveryService) Resolve(ctx context.Context, key string, purpose Purpose, action Action) (*AccountRecord, error) {
	if key == "" {
		return nil, ErrKeyNotFound
	}

	record, err := s.repo.GetByVerificationKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load account by key: %w", err)
	}

	if record.VerificationPurpose != purpose {
		slog.Warn("Verification purpose mismatch", "want", purpose, "have", record.VerificationPurpose)
		return nil, ErrPurposeMismatch
	}

	now := s.now().UTC()
	if record.VerificationIssuedAt == nil || now.Sub(*record.VerificationIssuedAt) > s.keyTTL {
		// Lazy expiry: the stale key is cleared on first touch.
		record.ClearVerification()
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to clear expired key: %w", err)
		}
		return nil, ErrKeyExpired
	}

	switch action {
	case ActionConfirm:
		switch purpose {
		case PurposeConfirmAccount:
			record.EmailVerifiedAt = &now
		case PurposeResetPassword:
			record.PasswordResetAllowedAt = &now
		}
	case ActionCancel:
		// Cancellation only applies to password resets, matching the flows
		// the cancel link is ever sent for.
		if purpose != PurposeResetPassword {
			return nil, ErrPurposeMismatch
		}
		if record.LastLoginAt != nil && record.LastLoginAt.After(*record.VerificationIssuedAt) {
			// A login already happened with this reset; cancelling now would
			// undo a consumed credential change.
			return nil, ErrAlreadyConsumed
		}
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}

	record.ClearVerification()
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist resolution: %w", err)
	}

	slog.Info("Verification key resolved", "purpose", purpose, "action", action)
	return record, nil
}

// Confirm resolves key with the confirm action.
func (s *RecoveryService) Confirm(ctx context.Context, key string, purpose Purpose) (*AccountRecord, error) {
	return s.Resolve(ctx, key, purpose, ActionConfirm)
}

// Cancel resolves a pending password reset with the cancel action.
func (s *RecoveryService) Cancel(ctx context.Context, key string) (*AccountRecord, error) {
	return s.Resolve(ctx, key, PurposeResetPassword, ActionCancel)
}

// CompletePasswordReset confirms a pending reset key and sets the new password
// in one step. The key is consumed even if the caller never sets a password.
func (s *RecoveryService) CompletePasswordReset(ctx context.Context, key, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password cannot be empty")
	}

	record, err := s.Resolve(ctx, key, PurposeResetPassword, ActionConfirm)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	record.PasswordHash = hashedPassword
	record.PasswordResetAllowedAt = nil
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to persist new password: %w", err)
	}

	slog.Info("Password reset completed", "email", record.Email)
	return nil
}

// sendKeyNotice formats and dispatches the notice carrying the verification key.
func (s *RecoveryService) sendKeyNotice(record *AccountRecord) error {
	if s.notificationManager == nil {
		slog.Warn("Notification manager not configured, skipping notice")
		return nil
	}

	noticeType := notification.AccountConfirmNotice
	if record.VerificationPurpose == PurposeResetPassword {
		noticeType = notification.PasswordResetNotice
	}

	data := notification.NotificationData{
		To: record.Email,
		Data: map[string]string{
			"Email":       record.Email,
			"Token":       record.VerificationKey,
			"ConfirmLink": fmt.Sprintf("%s/recover/confirm/%s", s.baseURL, record.VerificationKey),
			"CancelLink":  fmt.Sprintf("%s/recover/cancel/%s", s.baseURL, record.VerificationKey),
			"ExpiryHours": fmt.Sprintf("%.0f", s.keyTTL.Hours()),
		},
	}

	return s.notificationManager.Send(noticeType, data)
}
