package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"belegwerk/internal/bankimport"
	"belegwerk/internal/config"
	"belegwerk/internal/handler"
	"belegwerk/internal/port"
	"belegwerk/internal/repository/postgres"
	"belegwerk/internal/resolver"
	"belegwerk/internal/router"
	"belegwerk/internal/service"
	"belegwerk/internal/staging"
	s3storage "belegwerk/internal/storage/s3"
	"belegwerk/internal/vision"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	customerRepo := postgres.NewCustomerRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	quoteRepo := postgres.NewQuoteRepo(db)
	bankTxnRepo := postgres.NewBankTransactionRepo(db)

	// Staged sessions live in memory only; a restart loses them, committed
	// records never.
	stage := staging.NewStore(cfg.Staging.TTL)
	stage.StartJanitor(ctx, cfg.Staging.JanitorInterval)

	// Optional tiers: vision extraction and the S3 archive are both off
	// unless configured.
	var visionExtractor port.VisionExtractor
	if cfg.Vision.APIKey != "" {
		visionExtractor = vision.NewExtractor(&cfg.Vision)
		log.Printf("vision extraction enabled (model %s)", cfg.Vision.Model)
	} else {
		log.Printf("vision extraction disabled: no API key configured")
	}

	var objectStorage port.ObjectStorage
	if cfg.Archive.Bucket != "" {
		objectStorage, err = s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("document archive enabled (bucket %s)", cfg.Archive.Bucket)
	} else {
		log.Printf("document archive disabled: no bucket configured")
	}

	// Services
	importSvc := service.NewImportService(
		stage,
		resolver.New(customerRepo),
		visionExtractor,
		service.ImportConfig{
			BatchConcurrency: cfg.Import.BatchConcurrency,
			MaxBatchSize:     cfg.Import.MaxBatchSize,
			VisionMaxPages:   cfg.Vision.MaxPages,
		},
	)
	commitSvc := service.NewCommitService(stage, customerRepo, invoiceRepo, quoteRepo, objectStorage, cfg.Archive.Bucket)
	bankSvc := service.NewBankService(bankimport.DefaultRegistry(), bankTxnRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	documentSvc := service.NewDocumentService(invoiceRepo, quoteRepo, customerRepo)

	// Handlers
	importH := handler.NewImportHandler(importSvc, commitSvc, int(cfg.Import.MaxFileSizeMB))
	bankH := handler.NewBankHandler(bankSvc)
	customerH := handler.NewCustomerHandler(customerSvc)
	documentH := handler.NewDocumentHandler(documentSvc)
	exportH := handler.NewExportHandler(documentSvc, bankSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg.CORS.AllowedOrigins, importH, bankH, customerH, documentH, exportH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// In-flight commits get a grace period; staged sessions are lost either way.
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
