package recovery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemAccountRepository implements AccountRepository with an in-memory map.
// The mutex gives each Get/Save call read-modify-write atomicity per record,
// and records are copied at the boundary so callers never share memory with
// the store.
type InMemAccountRepository struct {
	mutex    sync.RWMutex
	accounts map[uuid.UUID]*AccountRecord
	byEmail  map[string]uuid.UUID
}

// NewInMemAccountRepository creates a new in-memory account repository
func NewInMemAccountRepository() *InMemAccountRepository {
	return &InMemAccountRepository{
		accounts: make(map[uuid.UUID]*AccountRecord),
		byEmail:  make(map[string]uuid.UUID),
	}
}

// Create provisions a new account record
func (r *InMemAccountRepository) Create(ctx context.Context, params CreateAccountParams) (*AccountRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	email := NormalizeEmail(params.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	record := &AccountRecord{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.accounts[record.ID] = record
	r.byEmail[email] = record.ID

	recordCopy := *record
	return &recordCopy, nil
}

// GetByEmail retrieves an account by its normalized email address
func (r *InMemAccountRepository) GetByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, exists := r.byEmail[NormalizeEmail(email)]
	if !exists {
		return nil, ErrAccountNotFound
	}

	recordCopy := *r.accounts[id]
	return &recordCopy, nil
}

// GetByVerificationKey retrieves the account whose verification key is currently
// set to key. Cleared keys are unreachable.
func (r *InMemAccountRepository) GetByVerificationKey(ctx context.Context, key string) (*AccountRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if key == "" {
		return nil, ErrAccountNotFound
	}

	for _, record := range r.accounts {
		if record.VerificationKey == key {
			recordCopy := *record
			return &recordCopy, nil
		}
	}

	return nil, ErrAccountNotFound
}

// Save persists the record, replacing the stored state atomically
func (r *InMemAccountRepository) Save(ctx context.Context, record *AccountRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.accounts[record.ID]
	if !exists {
		return ErrAccountNotFound
	}

	recordCopy := *record
	recordCopy.UpdatedAt = time.Now().UTC()

	if existing.Email != recordCopy.Email {
		delete(r.byEmail, existing.Email)
		r.byEmail[recordCopy.Email] = recordCopy.ID
	}

	r.accounts[record.ID] = &recordCopy
	return nil
}
