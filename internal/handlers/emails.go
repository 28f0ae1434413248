package handlers

import (
	"net/http"

	"EMAILTESTHUB_BACK-END/internal/dto"
	"EMAILTESTHUB_BACK-END/internal/mailbox"
	"EMAILTESTHUB_BACK-END/internal/utils"
)

// EmailsHandler exposes the mailbox pool available for new tests
type EmailsHandler struct {
	allocator mailbox.Allocator
}

// NewEmailsHandler creates a new EmailsHandler
func NewEmailsHandler(allocator mailbox.Allocator) *EmailsHandler {
	return &EmailsHandler{allocator: allocator}
}

// ListEmailAccounts handles GET /api/emails
// @Summary List available email accounts
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmailAccountListItem
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/emails [get]
func (h *EmailsHandler) ListEmailAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	accounts := h.allocator.List()
	items := make([]dto.EmailAccountListItem, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, dto.EmailAccountListItem{
			ID:        a.ID,
			Address:   a.Address,
			UUID:      a.UUID,
			Available: a.Available,
		})
	}

	utils.WriteJSONResponse(w, http.StatusOK, items)
}
