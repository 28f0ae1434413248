package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"EMAILTESTHUB_BACK-END/internal/models"
)

// Sentinel errors surfaced to handlers. Ownership mismatch and
// missing record both map to ErrNotFound so callers cannot probe
// which of the two occurred.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists registered accounts
type UserStore interface {
	// Create hashes the password and stores a new user. Returns
	// ErrDuplicateEmail if the email is already registered.
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	// GetByEmail returns the user including the password hash.
	// Used only by the login flow.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TestStore persists placement tests and their response history
type TestStore interface {
	// Create stores a new test with status pending and no responses.
	Create(ctx context.Context, ownerID uuid.UUID, name string, account models.EmailAccount, content string) (*models.Test, error)
	// ListByOwner returns all tests owned by ownerID, newest first,
	// with responses embedded.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Test, error)
	// GetByIDForOwner returns the test only when both the id and the
	// owner match; otherwise ErrNotFound.
	GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Test, error)
	// AppendResponse records an inbound message against a test and,
	// when the test is still pending, advances it to in_progress.
	// The lookup is by id only: this path serves the unauthenticated
	// webhook channel. Append and transition are atomic.
	AppendResponse(ctx context.Context, testID uuid.UUID, subject, content string) error
}
