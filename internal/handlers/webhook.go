package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/dto"
	"EMAILTESTHUB_BACK-END/internal/store"
	"EMAILTESTHUB_BACK-END/internal/utils"
)

// WebhookHandler receives inbound email responses from the delivery
// provider. This channel carries no user session; the provider cannot
// hold one. When a shared secret is configured the caller must present
// it in the X-Webhook-Secret header.
type WebhookHandler struct {
	tests store.TestStore
	cfg   *config.WebhookConfig
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(tests store.TestStore, cfg *config.WebhookConfig) *WebhookHandler {
	return &WebhookHandler{tests: tests, cfg: cfg}
}

// EmailResponse handles POST /api/webhook/email-response
// @Summary Record an inbound email response against a test
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body dto.EmailResponseWebhook true "Inbound response payload"
// @Success 200 {object} dto.WebhookAck
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/webhook/email-response [post]
func (h *WebhookHandler) EmailResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.cfg.Secret != "" {
		got := r.Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.cfg.Secret)) != 1 {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Invalid webhook secret")
			return
		}
	}

	var req dto.EmailResponseWebhook
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	testID, err := uuid.Parse(req.TestID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Test not found")
		return
	}

	if err := h.tests.AppendResponse(r.Context(), testID, req.Subject, req.Content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Test not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Server error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.WebhookAck{Message: "Response recorded"})
}
