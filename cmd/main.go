// @title Email Test Hub Backend API
// @version 1.0
// @description Backend API for creating email placement tests and recording inbound responses

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	_ "EMAILTESTHUB_BACK-END/docs" // This is required for swagger
	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/handlers"
	"EMAILTESTHUB_BACK-END/internal/mailbox"
	"EMAILTESTHUB_BACK-END/internal/migrations"
	"EMAILTESTHUB_BACK-END/internal/routes"
	"EMAILTESTHUB_BACK-END/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dsn := cfg.GetDSN()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatalf("parse dsn: %v", err)
	}
	// Simple protocol keeps the pool usable behind PgBouncer.
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "email-test-hub-backend"
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping: %v", err)
		}
	}

	{
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := migrations.Run(ctx, dsn); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// --- Stores and handlers ---

	users := store.NewPostgresUserStore(pool)
	tests := store.NewPostgresTestStore(pool)
	allocator := mailbox.NewMockAllocator()

	authHandler := handlers.NewAuthHandler(users, &cfg.JWT)
	testsHandler := handlers.NewTestsHandler(tests, allocator)
	emailsHandler := handlers.NewEmailsHandler(allocator)
	webhookHandler := handlers.NewWebhookHandler(tests, &cfg.Webhook)
	healthHandler := handlers.NewHealthHandler(pool)

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, authHandler, testsHandler, emailsHandler, webhookHandler, healthHandler, &cfg.JWT)

	// --- HTTP Server + Graceful Shutdown ---

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
