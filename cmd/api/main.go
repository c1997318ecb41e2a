package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/loginus-id/api/internal/application/account"
	"github.com/loginus-id/api/internal/application/authflow"
	"github.com/loginus-id/api/internal/application/verification"
	"github.com/loginus-id/api/internal/config"
	"github.com/loginus-id/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/loginus-id/api/internal/infrastructure/jwt"
	s3infra "github.com/loginus-id/api/internal/infrastructure/s3"
	"github.com/loginus-id/api/internal/infrastructure/sessionstore"
	"github.com/loginus-id/api/internal/infrastructure/smtp"
	"github.com/loginus-id/api/internal/infrastructure/sns"
	transporthttp "github.com/loginus-id/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Verification-session store: in-memory by default, DynamoDB when
	// configured (table bootstrapped with a TTL on expires_at).
	var store sessionstore.Store = sessionstore.NewMemory()
	if cfg.SessionBackend == "dynamo" {
		client, err := dynamo.NewClient(cfg)
		if err != nil {
			log.Fatalf("dynamo client: %v", err)
		}
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoSessionsTable)
		store = dynamo.NewSessionStore(client, cfg.DynamoSessionsTable)
	}

	// User fixtures (built-in defaults when no file is configured).
	users, err := account.LoadFixture(cfg.UsersFixturePath)
	if err != nil {
		log.Fatalf("load users fixture: %v", err)
	}
	accounts := account.NewService(users)

	// JWT provider (optional — graceful fallback to opaque mock tokens).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 archive for auth-flow snapshots (optional).
	var archive authflow.Archiver
	if client, err := s3infra.NewClient(cfg); err == nil {
		archive = s3infra.NewArchive(client, cfg.S3BucketName)
	} else {
		log.Printf("WARN: S3 archive not available: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback to log-only delivery).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Testing shortcuts (universal code, quick-access phone) stay off in
	// production no matter what the environment says.
	var bypass verification.BypassPolicy = verification.Disabled{}
	if !cfg.Production() {
		bypass = verification.NewDevPolicy(cfg.DevUniversalCode, cfg.QuickAccessPhone)
	}

	deps := &transporthttp.Deps{
		SessionStore: store,
		Accounts:     accounts,
		FlowStore:    authflow.NewFileStore(cfg.AuthFlowPaths),
		Archive:      archive,
		Mailer:       mailer,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
		Bypass:       bypass,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
