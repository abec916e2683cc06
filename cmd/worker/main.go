package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"asha-backend/cmd"
	"asha-backend/internal/analytics"
	"asha-backend/internal/database"
	"asha-backend/internal/messaging"

	"github.com/caarlos0/env/v11"
)

type WorkerConfig struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"./asha-data/asha.db"`
	RabbitMQURL string `env:"RABBITMQ_URL,notEmpty,required"`
}

// The worker persists analytics events published by the API server. It is
// only needed when RabbitMQ is configured; the single-process setup
// consumes its in-memory queue directly.
func main() {
	log.Println("Starting analytics worker...")

	cmd.LoadEnvFile()

	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down worker...")
		receiver.Close()
		// The task channel stays open across reconnects, so exit here
		// once the connection is closed.
		os.Exit(0)
	}()

	analytics.NewConsumer(db, receiver).Start()

	log.Println("Worker stopped.")
}
