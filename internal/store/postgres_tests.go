package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"EMAILTESTHUB_BACK-END/internal/models"
)

// PostgresTestStore implements TestStore on a pgx pool
type PostgresTestStore struct {
	db *pgxpool.Pool
}

// NewPostgresTestStore creates a new PostgresTestStore
func NewPostgresTestStore(db *pgxpool.Pool) *PostgresTestStore {
	return &PostgresTestStore{db: db}
}

func (s *PostgresTestStore) Create(ctx context.Context, ownerID uuid.UUID, name string, account models.EmailAccount, content string) (*models.Test, error) {
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

	_, err := s.db.Exec(ctx,
		`INSERT INTO tests (id, user_id, name, email_address, email_uuid, content, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		test.ID, test.UserID, test.Name, test.EmailAccount.Address, test.EmailAccount.UUID,
		test.Content, test.Status, test.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return test, nil
}

func (s *PostgresTestStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Test, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, name, email_address, email_uuid, content, status, created_at
		   FROM tests
		  WHERE user_id = $1
		  ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tests := make([]models.Test, 0)
	index := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var t models.Test
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.EmailAccount.Address, &t.EmailAccount.UUID,
			&t.Content, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.Responses = []models.Response{}
		index[t.ID] = len(tests)
		ids = append(ids, t.ID)
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(tests) == 0 {
		return tests, nil
	}

	// Attach response history in one pass. Ordering by serial id
	// preserves insertion order within each test.
	respRows, err := s.db.Query(ctx,
		`SELECT test_id, subject, content, received_at
		   FROM test_responses
		  WHERE test_id = ANY($1)
		  ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer respRows.Close()

	for respRows.Next() {
		var testID uuid.UUID
		var resp models.Response
		if err := respRows.Scan(&testID, &resp.Subject, &resp.Content, &resp.ReceivedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if i, ok := index[testID]; ok {
			tests[i].Responses = append(tests[i].Responses, resp)
		}
	}
	if err := respRows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tests, nil
}

func (s *PostgresTestStore) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Test, error) {
	t := &models.Test{Responses: []models.Response{}}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, name, email_address, email_uuid, content, status, created_at
		   FROM tests
		  WHERE id = $1 AND user_id = $2`, id, ownerID).Scan(
		&t.ID, &t.UserID, &t.Name, &t.EmailAccount.Address, &t.EmailAccount.UUID,
		&t.Content, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT subject, content, received_at FROM test_responses
		  WHERE test_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp models.Response
		if err := rows.Scan(&resp.Subject, &resp.Content, &resp.ReceivedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.Responses = append(t.Responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (s *PostgresTestStore) AppendResponse(ctx context.Context, testID uuid.UUID, subject, content string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent webhook deliveries for the same
	// test, so the append and the status transition commit together.
	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM tests WHERE id = $1 FOR UPDATE`, testID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO test_responses (test_id, subject, content, received_at)
		 VALUES ($1, $2, $3, $4)`,
		testID, subject, content, time.Now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if status == models.StatusPending {
		_, err = tx.Exec(ctx,
			`UPDATE tests SET status = $1 WHERE id = $2 AND status = $3`,
			models.StatusInProgress, testID, models.StatusPending)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
