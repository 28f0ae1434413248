package models

import (
	"time"

	"github.com/google/uuid"
)

// Test status values. Status only moves forward:
// pending -> in_progress -> completed. completed is terminal and is
// currently never written by any handler; it is reserved for a future
// delivery-scoring feature.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// EmailAccount is the mailbox assigned to a test
type EmailAccount struct {
	Address string `json:"address" db:"email_address"`
	UUID    string `json:"uuid" db:"email_uuid"`
}

// Response is an inbound message recorded against a test
type Response struct {
	Subject    string    `json:"subject" db:"subject"`
	Content    string    `json:"content" db:"content"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}

// Test represents an email placement test owned by a single user
type Test struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	Name         string       `json:"name" db:"name"`
	EmailAccount EmailAccount `json:"email_account"`
	Content      string       `json:"content" db:"content"`
	Status       string       `json:"status" db:"status"`
	Responses    []Response   `json:"responses"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
