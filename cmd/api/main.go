package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asha-backend/cmd"
	"asha-backend/internal/analytics"
	"asha-backend/internal/api"
	"asha-backend/internal/auth"
	"asha-backend/internal/chat"
	"asha-backend/internal/clients/adzuna"
	"asha-backend/internal/clients/ticketmaster"
	"asha-backend/internal/database"
	"asha-backend/internal/dataset"
	"asha-backend/internal/llm"
	"asha-backend/internal/messaging"
	"asha-backend/internal/retrieval"
	"asha-backend/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

type APIConfig struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"./asha-data/asha.db"`

	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL"`
	GroqModel   string `env:"GROQ_MODEL"`

	AdzunaAppID   string `env:"ADZUNA_APP_ID"`
	AdzunaAppKey  string `env:"ADZUNA_APP_KEY"`
	AdzunaCountry string `env:"ADZUNA_COUNTRY" envDefault:"gb"`

	TicketmasterAPIKey string `env:"TICKETMASTER_API_KEY"`

	JWTSecret string `env:"JWT_SECRET,notEmpty,required"`

	RabbitMQURL string `env:"RABBITMQ_URL"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	DatasetBucket string `env:"DATASET_BUCKET" envDefault:"datasets"`

	SynonymsPath string `env:"SYNONYMS_PATH"`

	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"100"`

	APIPort string `env:"API_PORT" envDefault:"8001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var provider storage.Provider
	if cfg.S3EndpointURL != "" || cfg.S3AccessKeyID != "" {
		provider, err = storage.NewS3Provider(&storage.S3ProviderConfig{
			S3EndpointURL:     cfg.S3EndpointURL,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 storage provider: %v", err)
		}
	} else {
		provider = storage.NewLocalProvider(cfg.DataDir)
	}

	importDatasetIfEmpty(db, provider, cfg.DatasetBucket)

	// Queue: RabbitMQ when configured, otherwise in-process.
	var publisher messaging.Publisher
	var receiver messaging.Reciever
	if cfg.RabbitMQURL != "" {
		publisher, err = messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		// Events are consumed by the worker binary.
	} else {
		queue := messaging.NewInMemoryQueue()
		publisher = queue
		receiver = queue
	}
	defer publisher.Close()

	if receiver != nil {
		go analytics.NewConsumer(db, receiver).Start()
	}
	recorder := analytics.NewRecorder(publisher)

	expander := retrieval.NewExpander()
	if cfg.SynonymsPath != "" {
		expander, err = retrieval.NewExpanderWithDictionary(cfg.SynonymsPath)
		if err != nil {
			log.Fatalf("Failed to load synonym dictionary: %v", err)
		}
	}

	var jobSource retrieval.JobSource
	var eventSource retrieval.EventSource
	adzunaClient := adzuna.NewClient(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry)
	if adzunaClient.Configured() {
		jobSource = adzunaClient
	}
	ticketmasterClient := ticketmaster.NewClient(cfg.TicketmasterAPIKey)
	if ticketmasterClient.Configured() {
		eventSource = ticketmasterClient
	}

	retriever := retrieval.NewRetriever(expander, retrieval.NewLocalStore(db), jobSource, eventSource)

	var completer llm.Completer
	var generator api.InsightsGenerator
	if cfg.GroqAPIKey != "" {
		completer, err = llm.NewGroqCompleter(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
		if err != nil {
			log.Fatalf("Failed to create completion client: %v", err)
		}
		baseURL := cfg.GroqBaseURL
		if baseURL == "" {
			baseURL = llm.DefaultGroqBaseURL
		}
		model := cfg.GroqModel
		if model == "" {
			model = llm.DefaultGroqModel
		}
		generator = llm.NewGenerator(cfg.GroqAPIKey, baseURL, model, 0.3)
	} else {
		slog.Warn("GROQ_API_KEY not set, chat replies will be degraded")
	}

	manager := chat.NewChatSessionManager(db, completer, retriever, cfg.SessionCacheSize)

	janitor := chat.NewJanitor(db, cfg.SessionTTL)
	if err := janitor.Start(); err != nil {
		log.Fatalf("Failed to start session janitor: %v", err)
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	api.NewChatService(db, manager, recorder).AddRoutes(r)
	api.NewSearchService(retriever, recorder).AddRoutes(r)
	api.NewFeedbackService(db, generator, recorder, issuer.Middleware).AddRoutes(r)
	api.NewAuthService(db, issuer).AddRoutes(r)
	api.NewAnalyticsService(db, issuer.Middleware).AddRoutes(r)
	api.NewHealthService(db, completer != nil, adzunaClient, ticketmasterClient).AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		janitor.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

// importDatasetIfEmpty seeds the local search tables on first boot so a
// fresh deployment answers queries without a separate seed step. cmd/seed
// re-imports on demand.
func importDatasetIfEmpty(db *gorm.DB, provider storage.Provider, bucket string) {
	var count int64
	if err := db.Model(&database.JobListing{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to inspect job listings table: %v", err)
	}
	if count > 0 {
		return
	}

	loader := dataset.NewLoader(db, provider, bucket)
	jobs, sessions, err := loader.Load(context.Background())
	if err != nil {
		slog.Warn("dataset import failed, local search will be empty", "error", err)
		return
	}
	slog.Info("imported dataset", "jobs", jobs, "sessions", sessions)
}
