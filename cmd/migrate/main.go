// Command migrate rewrites invoices stored with the legacy dueDate/fileUrl
// field names into due_date/file_link.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portal-backend-go/internal/config"
	"portal-backend-go/internal/db"
	"portal-backend-go/internal/firebase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report the invoices that would change without writing")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the migration")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app, err := firebase.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		logger.Fatal("Failed to get Firestore client", zap.Error(err))
	}
	defer client.Close()

	store, err := db.NewFirestoreStore(client)
	if err != nil {
		logger.Fatal("Failed to create document store", zap.Error(err))
	}

	n, err := db.NewInvoiceRepository(store).MigrateLegacyFields(ctx, *dryRun)
	if err != nil {
		logger.Fatal("Migration failed", zap.Int("migrated", n), zap.Error(err))
	}
	if *dryRun {
		logger.Info("Dry run complete", zap.Int("wouldMigrate", n))
		return
	}
	logger.Info("Migration complete", zap.Int("migrated", n))
}
