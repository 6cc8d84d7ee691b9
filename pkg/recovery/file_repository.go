package recovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileAccountRepository implements AccountRepository using file-based storage
type FileAccountRepository struct {
	dataDir  string
	accounts map[uuid.UUID]*AccountRecord
	mutex    sync.RWMutex
}

// accountData represents the structure of data stored in the JSON file
type accountData struct {
	Accounts []*AccountRecord `json:"accounts"`
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir:  dataDir,
		accounts: make(map[uuid.UUID]*AccountRecord),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// Create provisions a new account record
func (r *FileAccountRepository) Create(ctx context.Context, params CreateAccountParams) (*AccountRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	email := NormalizeEmail(params.Email)
	for _, record := range r.accounts {
		if record.Email == email {
			return nil, ErrDuplicateEmail
		}
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

	if err := r.save(); err != nil {
		delete(r.accounts, record.ID)
		return nil, fmt.Errorf("failed to save: %w", err)
	}

	recordCopy := *record
	return &recordCopy, nil
}

// GetByEmail retrieves an account by its normalized email address
func (r *FileAccountRepository) GetByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	email = NormalizeEmail(email)
	for _, record := range r.accounts {
		if record.Email == email {
			recordCopy := *record
			return &recordCopy, nil
		}
	}

	return nil, ErrAccountNotFound
}

// GetByVerificationKey retrieves the account whose verification key is currently set
func (r *FileAccountRepository) GetByVerificationKey(ctx context.Context, key string) (*AccountRecord, error) {
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
func (r *FileAccountRepository) Save(ctx context.Context, record *AccountRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	old, exists := r.accounts[record.ID]
	if !exists {
		return ErrAccountNotFound
	}

	recordCopy := *record
	recordCopy.UpdatedAt = time.Now().UTC()
	r.accounts[record.ID] = &recordCopy

	if err := r.save(); err != nil {
		r.accounts[record.ID] = old
		return fmt.Errorf("failed to save: %w", err)
	}

	return nil
}

func (r *FileAccountRepository) dataFile() string {
	return filepath.Join(r.dataDir, "accounts.json")
}

// load reads all records from the JSON file. Callers hold the lock.
func (r *FileAccountRepository) load() error {
	content, err := os.ReadFile(r.dataFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var data accountData
	if err := json.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}

	for _, record := range data.Accounts {
		r.accounts[record.ID] = record
	}

	return nil
}

// save writes all records to the JSON file. Callers hold the lock.
func (r *FileAccountRepository) save() error {
	data := accountData{}
	for _, record := range r.accounts {
		data.Accounts = append(data.Accounts, record)
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := r.dataFile() + ".tmp"
	if err := os.WriteFile(tmpFile, content, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, r.dataFile())
}
