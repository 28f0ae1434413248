package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"EMAILTESTHUB_BACK-END/internal/models"
)

// MemoryUserStore is an in-memory UserStore for tests
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

// NewMemoryUserStore creates an empty MemoryUserStore
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return nil, ErrDuplicateEmail
	}
	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	s.users[email] = user
	return &user, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// MemoryTestStore is an in-memory TestStore for tests. The mutex
// serializes AppendResponse the way the row lock does in Postgres.
type MemoryTestStore struct {
	mu    sync.Mutex
	tests map[uuid.UUID]*models.Test
}

// NewMemoryTestStore creates an empty MemoryTestStore
func NewMemoryTestStore() *MemoryTestStore {
	return &MemoryTestStore{tests: make(map[uuid.UUID]*models.Test)}
}

func (s *MemoryTestStore) Create(ctx context.Context, ownerID uuid.UUID, name string, account models.EmailAccount, content string) (*models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	test := &models.Test{
		ID:           uuid.New(),
		UserID:       ownerID,
		Name:         name,
		EmailAccount: account,
		Content:      content,
		Status:       models.StatusPending,
		Responses:    []models.Response{},
		CreatedAt:    time.Now(),
	}
	s.tests[test.ID] = test
	return copyTest(test), nil
}

func (s *MemoryTestStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Test, 0)
	for _, t := range s.tests {
		if t.UserID == ownerID {
			out = append(out, *copyTest(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryTestStore) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tests[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	return copyTest(t), nil
}

func (s *MemoryTestStore) AppendResponse(ctx context.Context, testID uuid.UUID, subject, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tests[testID]
	if !ok {
		return ErrNotFound
	}
	t.Responses = append(t.Responses, models.Response{
		Subject:    subject,
		Content:    content,
		ReceivedAt: time.Now(),
	})
	if t.Status == models.StatusPending {
		t.Status = models.StatusInProgress
	}
	return nil
}

func copyTest(t *models.Test) *models.Test {
	c := *t
	c.Responses = make([]models.Response, len(t.Responses))
	copy(c.Responses, t.Responses)
	return &c
}
