package dto

// EmailResponseWebhook is the payload delivered by the inbound mail provider
type EmailResponseWebhook struct {
	TestID  string `json:"testId" validate:"required"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// WebhookAck acknowledges a recorded response
type WebhookAck struct {
	Message string `json:"message"`
}
