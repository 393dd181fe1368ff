package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"spine/internal/domain/banking"
	"spine/internal/domain/insight"
	"spine/internal/infrastructure/crypto"
	"spine/internal/infrastructure/plaid"
	"spine/internal/infrastructure/postgres"
	"spine/internal/interfaces/worker"
	"spine/internal/shared/config"
	"spine/internal/shared/logger"
)

const usage = `Spine Admin CLI - Management commands for the Spine API

Usage:
  admin <command> [options]

Commands:
  migrate    Apply or roll back database migrations
  sync       Run a transaction sync pass for one or more users
  score      Recalculate the risk snapshot for one or more users
  refresh    Sync, then score, for one or more users

Examples:
  # Apply all pending migrations
  admin migrate up

  # Roll back the last migration
  admin migrate down --steps=1

  # Sync transactions for a single user
  admin sync --user-id=3f1c2a

  # Sync and score several users with four workers
  admin refresh --user-id=3f1c2a,9b7e01,c44d10 --workers=4 --timeout=10m
`

const defaultWorkerCount = 4

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "sync", "score", "refresh":
		runUserCommand(command, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func mustLoad() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("error", true)
		l.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg, logger.New(cfg.Log.Level, true)
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	steps := fs.Int("steps", 1, "Number of migrations to roll back (down only)")

	fs.Usage = func() {
		fmt.Println("Usage: admin migrate <up|down> [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if len(args) < 1 {
		fs.Usage()
		os.Exit(1)
	}
	direction := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		os.Exit(1)
	}

	cfg, log := mustLoad()

	db, err := postgres.New(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	switch direction {
	case "up":
		err = postgres.MigrateUp(db, log)
	case "down":
		err = postgres.MigrateDown(db, *steps, log)
	default:
		fmt.Printf("Unknown direction: %s\n\n", direction)
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func runUserCommand(command string, args []string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to process (comma-separated for multiple)")
	workers := fs.Int("workers", defaultWorkerCount, "Number of concurrent workers")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the whole run (e.g., 5m, 1h)")
	jobTimeoutStr := fs.String("job-timeout", "2m", "Timeout for a single user")

	fs.Usage = func() {
		fmt.Printf("Usage: admin %s [options]\n", command)
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	userIDs := parseUserIDs(*userIDStr)
	if len(userIDs) == 0 {
		fmt.Println("Error: must specify --user-id")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		fmt.Printf("Invalid timeout format: %v\n", err)
		os.Exit(1)
	}
	jobTimeout, err := time.ParseDuration(*jobTimeoutStr)
	if err != nil {
		fmt.Printf("Invalid job-timeout format: %v\n", err)
		os.Exit(1)
	}

	cfg, log := mustLoad()

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), timeout)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create encryptor")
	}

	linkRepo := postgres.NewBankLinkRepository(db, encryptor)
	transactionRepo := postgres.NewTransactionRepository(db)
	healthRepo := postgres.NewHealthRepository(db)

	syncService := banking.NewTransactionSyncService(plaid.NewClient(cfg.Plaid), linkRepo, transactionRepo)
	insightService := insight.NewService(postgres.NewInsightRepository(db), healthRepo, transactionRepo, nil)

	jobs := make([]worker.Job, 0, len(userIDs))
	for _, id := range userIDs {
		switch command {
		case "sync":
			jobs = append(jobs, worker.NewSyncJob(id, syncService))
		case "score":
			jobs = append(jobs, worker.NewScoreJob(id, insightService))
		case "refresh":
			jobs = append(jobs, worker.NewRefreshJob(id, syncService, insightService))
		}
	}

	log.Info().Str("command", command).Int("users", len(jobs)).Int("workers", *workers).Msg("starting run")
	startTime := time.Now()

	pool := worker.NewPool(ctx, log, *workers, len(jobs), jobTimeout)
	pool.Start()
	pool.SubmitBatch(jobs)
	pool.Shutdown(timeout)

	report := pool.Report()
	printReport(command, userIDs, report)
	log.Info().Dur("elapsed", time.Since(startTime)).Msg("run completed")

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}

// parseUserIDs splits a comma-separated list and drops blanks and repeats so
// no user is processed twice in one run.
func parseUserIDs(s string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ids = append(ids, p)
	}
	return ids
}

func printReport(command string, userIDs []string, report worker.Report) {
	fmt.Printf("\n=== %s ===\n", command)
	fmt.Printf("  Users processed: %d\n", report.Completed)
	fmt.Printf("  Failures:        %d\n", len(report.Failures))

	for _, id := range userIDs {
		if err, ok := report.Failures[id]; ok {
			fmt.Printf("    - %s: %v\n", id, err)
		}
	}
}
