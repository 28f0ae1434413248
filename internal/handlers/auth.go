package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/dto"
	"EMAILTESTHUB_BACK-END/internal/middleware"
	"EMAILTESTHUB_BACK-END/internal/store"
	"EMAILTESTHUB_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  store.UserStore
	jwtCfg *config.JWTConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users store.UserStore, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwtCfg: jwtCfg}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with name, email, and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.RegisterResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "name, email, and password are required")
		return
	}

	_, err := h.users.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "User already exists")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", "Server error")
		return
	}

	// The password never comes back; the client logs in afterwards.
	utils.WriteJSONResponse(w, http.StatusCreated, dto.RegisterResponse{Message: "User registered successfully"})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Email and password are required")
		return
	}

	// Unknown email and wrong password produce the same response so
	// callers cannot enumerate registered accounts.
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid credentials", "Invalid credentials")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid credentials", "Invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwtCfg)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", "Server error")
		return
	}

	response := dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
		},
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}
