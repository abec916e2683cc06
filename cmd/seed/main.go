package main

import (
	"context"
	"log"

	"asha-backend/cmd"
	"asha-backend/internal/database"
	"asha-backend/internal/dataset"
	"asha-backend/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/schollz/progressbar/v3"
)

type SeedConfig struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"./asha-data/asha.db"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	DatasetBucket string `env:"DATASET_BUCKET" envDefault:"datasets"`
}

// Imports the curated dataset (job listings CSV, mentorship sessions JSON)
// into the database, replacing any previous import.
func main() {
	cmd.LoadEnvFile()

	var cfg SeedConfig
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

	bar := progressbar.Default(-1, "importing dataset")
	loader := dataset.NewLoader(db, provider, cfg.DatasetBucket)
	loader.Progress = func() {
		bar.Add(1) //nolint:errcheck
	}

	jobs, sessions, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("Dataset import failed: %v", err)
	}
	bar.Finish() //nolint:errcheck

	log.Printf("Imported %d job listings and %d mentorship sessions", jobs, sessions)
}
