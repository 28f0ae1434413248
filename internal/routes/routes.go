package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/handlers"
	"EMAILTESTHUB_BACK-END/internal/middleware"
)

// SetupRoutes configures all application routes on the given mux
func SetupRoutes(
	mux *http.ServeMux,
	authHandler *handlers.AuthHandler,
	testsHandler *handlers.TestsHandler,
	emailsHandler *handlers.EmailsHandler,
	webhookHandler *handlers.WebhookHandler,
	healthHandler *handlers.HealthHandler,
	jwtCfg *config.JWTConfig,
) {
	// Health check routes
	mux.HandleFunc("/healthz", healthHandler.HealthCheck)
	mux.HandleFunc("/livez", healthHandler.LivenessCheck)
	mux.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("/api/register", authHandler.Register)
	mux.HandleFunc("/api/login", authHandler.Login)

	// Test routes (collection and detail share the dispatcher)
	mux.HandleFunc("/api/tests", middleware.AuthMiddleware(testsHandler.Tests, jwtCfg))
	mux.HandleFunc("/api/tests/", middleware.AuthMiddleware(testsHandler.Tests, jwtCfg))

	// Mailbox pool
	mux.HandleFunc("/api/emails", middleware.AuthMiddleware(emailsHandler.ListEmailAccounts, jwtCfg))

	// Inbound webhook. No user session on this route; see WebhookHandler.
	mux.HandleFunc("/api/webhook/email-response", webhookHandler.EmailResponse)

	// API documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Email Test Hub backend is running."))
}
