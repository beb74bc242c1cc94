package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/config"
	"github.com/drivent/booking-backend/internal/database"
	"github.com/drivent/booking-backend/migrations"
)

func main() {
	var dbURLFlag string
	var reset bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&reset, "reset", false, "truncate all booking tables after migrating")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env so secrets stay off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Minimal database config without loading full app config
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	ran, err := migrations.Apply(ctx, db, logger)
	if err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
	logger.WithField("applied", len(ran)).Info("Schema up to date")

	if reset {
		if err := migrations.Reset(ctx, db); err != nil {
			logger.Fatalf("Reset failed: %v", err)
		}
		logger.Info("All booking tables truncated")
	}
}
