package dto

// CreateTestRequest represents the request payload for creating a placement test
type CreateTestRequest struct {
	Name           string `json:"name" validate:"required"`
	EmailAccountID string `json:"emailAccountId"`
	Content        string `json:"content" validate:"required"`
}

// EmailAccountResponse is the mailbox assigned to a test
type EmailAccountResponse struct {
	Address string `json:"address"`
	UUID    string `json:"uuid"`
}

// ResponseItem is one recorded inbound message on a test
type ResponseItem struct {
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	ReceivedAt string `json:"received_at"`
}

// TestResponse represents a placement test in API responses
type TestResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	Name         string               `json:"name"`
	EmailAccount EmailAccountResponse `json:"email_account"`
	Content      string               `json:"content"`
	Status       string               `json:"status"`
	Responses    []ResponseItem       `json:"responses"`
	CreatedAt    string               `json:"created_at"`
}
