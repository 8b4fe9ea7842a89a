package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"peerpulse-backend/internal/database"
	"peerpulse-backend/internal/feedback"
	"peerpulse-backend/internal/handlers"
	customMiddleware "peerpulse-backend/internal/middleware"
	"peerpulse-backend/internal/notify"
	"peerpulse-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "peerpulse")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	directoryRepo := repository.NewDirectoryRepo()
	questionnaireRepo := repository.NewQuestionnaireRepo()
	configRepo := repository.NewConfigRepo()
	feedbackRepo := repository.NewFeedbackRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := questionnaireRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create questionnaire indexes: %v", err)
	}
	if err := configRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create config indexes: %v", err)
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// Email notifier falls back to a logging mock without an API key
	var notifier notify.Notifier
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		notifier = notify.NewEmailNotifier(apiKey, getEnv("FROM_EMAIL", "feedback@peerpulse.app"))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, using mock notifier")
		notifier = notify.NewMockNotifier()
	}

	// Core feedback service
	feedbackService := feedback.NewService(directoryRepo, questionnaireRepo, configRepo, feedbackRepo)

	// Initialize handlers
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, notifier, jwtSecret)
	configHandler := handlers.NewConfigHandler(configRepo)
	questionnaireHandler := handlers.NewQuestionnaireHandler(questionnaireRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"peerpulse-backend"}`))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Feedback routes — auth is owned by the surrounding platform; the
	// weight override inside PUT checks the admin token itself
	r.Post("/feedback", feedbackHandler.Create)
	r.Get("/feedback", feedbackHandler.List)
	r.Get("/feedback/stats", feedbackHandler.Stats)
	r.Get("/feedback/{id}", feedbackHandler.Get)
	r.Put("/feedback/{id}", feedbackHandler.Update)

	r.Get("/configs/current", configHandler.GetCurrent)
	r.Get("/questionnaires/{id}", questionnaireHandler.Get)

	// Administrative routes (admin JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.AdminOnly(jwtSecret))

		r.Delete("/feedback/{id}", feedbackHandler.Delete)
		r.Post("/configs", configHandler.Create)
		r.Post("/questionnaires", questionnaireHandler.Create)
	})

	// Start server
	log.Printf("🚀 PeerPulse backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
