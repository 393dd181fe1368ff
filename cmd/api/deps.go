package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"spine/internal/domain/banking"
	"spine/internal/domain/health"
	"spine/internal/domain/insight"
	"spine/internal/domain/transaction"
	"spine/internal/infrastructure/crypto"
	"spine/internal/infrastructure/plaid"
	"spine/internal/infrastructure/postgres"
	httphandlers "spine/internal/interfaces/http"
	"spine/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	HealthHandler      *httphandlers.HealthHandler
	InsightHandler     *httphandlers.InsightHandler
	BankingHandler     *httphandlers.BankingHandler
	TransactionHandler *httphandlers.TransactionHandler
}

// Services are the domain services shared by the API and the admin CLI.
type Services struct {
	Health       *health.Service
	Insight      *insight.Service
	Links        *banking.LinkService
	Sync         *banking.TransactionSyncService
	Transactions *transaction.Service
}

// NewServices wires repositories and the Plaid client into domain services.
func NewServices(db *postgres.DB, cfg *config.Config) (*Services, error) {
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	linkRepo := postgres.NewBankLinkRepository(db, encryptor)
	transactionRepo := postgres.NewTransactionRepository(db)
	healthRepo := postgres.NewHealthRepository(db)
	insightRepo := postgres.NewInsightRepository(db)

	plaidClient := plaid.NewClient(cfg.Plaid)

	return &Services{
		Health:       health.NewService(healthRepo, nil),
		Insight:      insight.NewService(insightRepo, healthRepo, transactionRepo, nil),
		Links:        banking.NewLinkService(plaidClient, linkRepo),
		Sync:         banking.NewTransactionSyncService(plaidClient, linkRepo, transactionRepo),
		Transactions: transaction.NewService(transactionRepo),
	}, nil
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("connected to database")

	svc, err := NewServices(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Dependencies{
		DB:                 db,
		HealthHandler:      httphandlers.NewHealthHandler(svc.Health),
		InsightHandler:     httphandlers.NewInsightHandler(svc.Insight),
		BankingHandler:     httphandlers.NewBankingHandler(svc.Links, svc.Sync),
		TransactionHandler: httphandlers.NewTransactionHandler(svc.Transactions),
	}, nil
}
