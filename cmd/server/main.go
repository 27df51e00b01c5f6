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

	"quizforge-backend/internal/authoring"
	"quizforge-backend/internal/collection"
	"quizforge-backend/internal/config"
	"quizforge-backend/internal/database"
	"quizforge-backend/internal/draftstore"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/repository"
	"quizforge-backend/internal/router"
)

func main() {
	log.Println("🚀 Starting QuizForge Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Initialize Gemini Generator ────
	gen, err := generator.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer gen.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Repositories and Stores ────
	userRepo := repository.NewUserRepo(pool)
	quizRepo := collection.NewRepo(pool)
	draftStore := draftstore.NewRedisStore(redisClient)

	// ──── Initialize Orchestrator ────
	orch := authoring.New(draftStore, quizRepo, gen)

	// ──── Initialize Handlers ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionHandler := handlers.NewSessionHandler(userRepo, jwtAuth)
	authoringHandler := handlers.NewAuthoringHandler(orch, userRepo, cfg.UploadMaxBytes)
	draftsHandler := handlers.NewDraftsHandler(orch)
	quizzesHandler := handlers.NewQuizzesHandler(quizRepo, orch)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		sessionHandler,
		authoringHandler,
		draftsHandler,
		quizzesHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ QuizForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
