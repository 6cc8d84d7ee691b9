package recovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// PostgresAccountRepository implements AccountRepository backed by Postgres.
// Every write is a single UPDATE by primary key, so concurrent writers get
// row-level atomicity from the database and a Resolve can never observe a
// half-written record.
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new Postgres account repository
func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `
	id, email, password_hash,
	email_verified_at, password_reset_allowed_at, last_login_at,
	verification_key, verification_purpose, verification_issued_at, verification_return_target,
	created_at, updated_at
`

func scanAccount(row pgx.Row) (*AccountRecord, error) {
	var record AccountRecord
	var key, purpose, returnTarget *string
	err := row.Scan(
		&record.ID,
		&record.Email,
		&record.PasswordHash,
		&record.EmailVerifiedAt,
		&record.PasswordResetAllowedAt,
		&record.LastLoginAt,
		&key,
		&purpose,
		&record.VerificationIssuedAt,
		&returnTarget,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if key != nil {
		record.VerificationKey = *key
	}
	if purpose != nil {
		record.VerificationPurpose = Purpose(*purpose)
	}
	if returnTarget != nil {
		record.VerificationReturnTarget = *returnTarget
	}

	return &record, nil
}

// Create provisions a new account record
func (r *PostgresAccountRepository) Create(ctx context.Context, params CreateAccountParams) (*AccountRecord, error) {
	query := `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + accountColumns

	record, err := scanAccount(r.db.QueryRow(ctx, query, NormalizeEmail(params.Email), params.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		slog.Error("Failed to create account", "err", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return record, nil
}

// GetByEmail retrieves an account by its normalized email address
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`

	record, err := scanAccount(r.db.QueryRow(ctx, query, NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return record, nil
}

// GetByVerificationKey retrieves the account whose verification key is currently
// set to key. Cleared keys are stored as NULL and never match.
func (r *PostgresAccountRepository) GetByVerificationKey(ctx context.Context, key string) (*AccountRecord, error) {
	if key == "" {
		return nil, ErrAccountNotFound
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE verification_key = $1
	`

	record, err := scanAccount(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return record, nil
}

// Save persists the record. A single UPDATE by id keeps the write atomic.
func (r *PostgresAccountRepository) Save(ctx context.Context, record *AccountRecord) error {
	query := `
		UPDATE accounts
		SET email = $2,
		    password_hash = $3,
		    email_verified_at = $4,
		    password_reset_allowed_at = $5,
		    last_login_at = $6,
		    verification_key = NULLIF($7, ''),
		    verification_purpose = NULLIF($8, ''),
		    verification_issued_at = $9,
		    verification_return_target = NULLIF($10, ''),
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		record.ID,
		record.Email,
		record.PasswordHash,
		record.EmailVerifiedAt,
		record.PasswordResetAllowedAt,
		record.LastLoginAt,
		record.VerificationKey,
		string(record.VerificationPurpose),
		record.VerificationIssuedAt,
		record.VerificationReturnTarget,
	)
	if err != nil {
		slog.Error("Failed to save account", "id", record.ID, "err", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}
