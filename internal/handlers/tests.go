package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"EMAILTESTHUB_BACK-END/internal/dto"
	"EMAILTESTHUB_BACK-END/internal/mailbox"
	"EMAILTESTHUB_BACK-END/internal/models"
	"EMAILTESTHUB_BACK-END/internal/store"
	"EMAILTESTHUB_BACK-END/internal/utils"
)

// TestsHandler manages placement-test endpoints
type TestsHandler struct {
	tests     store.TestStore
	allocator mailbox.Allocator
}

// NewTestsHandler creates a new TestsHandler
func NewTestsHandler(tests store.TestStore, allocator mailbox.Allocator) *TestsHandler {
	return &TestsHandler{tests: tests, allocator: allocator}
}

// Tests dispatches by HTTP method for /api/tests
func (h *TestsHandler) Tests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateTest(w, r)
	case http.MethodGet:
		// If path has an ID suffix, treat as detail
		if strings.HasPrefix(r.URL.Path, "/api/tests/") && len(r.URL.Path) > len("/api/tests/") {
			h.TestDetail(w, r)
			return
		}
		h.ListTests(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateTest handles POST /api/tests
// @Summary Create a new placement test
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTestRequest true "Test payload"
// @Success 201 {object} dto.TestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests [post]
func (h *TestsHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateTestRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Content == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "name and content are required")
		return
	}

	// The mailbox comes from the allocator, not the client. A real
	// deployment would verify the requested account is available.
	account := h.allocator.Allocate(req.EmailAccountID)

	test, err := h.tests.Create(r.Context(), userID, req.Name, account, req.Content)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Server error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, toTestResponse(test))
}

// ListTests handles GET /api/tests
// @Summary List the caller's placement tests
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests [get]
func (h *TestsHandler) ListTests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	tests, err := h.tests.ListByOwner(r.Context(), userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Server error")
		return
	}

	items := make([]dto.TestResponse, 0, len(tests))
	for i := range tests {
		items = append(items, toTestResponse(&tests[i]))
	}

	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// TestDetail handles GET /api/tests/{test_id}
// @Summary Get placement test detail
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param test_id path string true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests/{test_id} [get]
func (h *TestsHandler) TestDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/tests/")
	testID, err := uuid.Parse(idStr)
	if err != nil {
		// Malformed ids read as missing. Callers cannot tell a bad id
		// from someone else's test.
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Test not found")
		return
	}

	test, err := h.tests.GetByIDForOwner(r.Context(), testID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Test not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Server error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toTestResponse(test))
}

func toTestResponse(t *models.Test) dto.TestResponse {
	responses := make([]dto.ResponseItem, 0, len(t.Responses))
	for _, resp := range t.Responses {
		responses = append(responses, dto.ResponseItem{
			Subject:    resp.Subject,
			Content:    resp.Content,
			ReceivedAt: resp.ReceivedAt.Format(time.RFC3339),
		})
	}

	return dto.TestResponse{
		ID:     t.ID.String(),
		UserID: t.UserID.String(),
		Name:   t.Name,
		EmailAccount: dto.EmailAccountResponse{
			Address: t.EmailAccount.Address,
			UUID:    t.EmailAccount.UUID,
		},
		Content:   t.Content,
		Status:    t.Status,
		Responses: responses,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}
