package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/careerintel/server/internal/config"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  resume  - ingest a resume text file (replaces any stored resume)")
		fmt.Println("  job     - ingest a job posting text file under a new reference number")
		fmt.Println("  stats   - show document registry statistics")
		fmt.Println("  clear   - remove every stored document and chunk")
		fmt.Println("\nOptions:")
		fmt.Println("  --path <path>       - text file to ingest")
		fmt.Println("  --filename <name>   - display filename (defaults to the file's base name)")
		fmt.Println("  --yes               - confirm clear")
		os.Exit(1)
	}

	command := os.Args[1]

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	store, err := index.NewPostgres(ctx, cfg.DatabaseURL, cfg.EmbeddingDimension)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure database schema", "error", err)
	}

	logger.Info("connected to database")

	// route to appropriate command
	switch command {
	case "resume":
		flags := config.ParseResumeFlags()
		if err := IngestResumeFile(ctx, cfg, store, flags); err != nil {
			logger.Fatal("failed to ingest resume", "error", err)
		}

	case "job":
		flags := config.ParseJobFlags()
		if err := IngestJobFile(ctx, cfg, store, flags); err != nil {
			logger.Fatal("failed to ingest job posting", "error", err)
		}

	case "stats":
		if err := PrintStats(ctx, store); err != nil {
			logger.Fatal("failed to load stats", "error", err)
		}

	case "clear":
		flags := config.ParseClearFlags()
		if !flags.Clear {
			fmt.Println("refusing to clear without --yes")
			os.Exit(1)
		}

		if err := store.Clear(ctx); err != nil {
			logger.Fatal("failed to clear documents", "error", err)
		}

		logger.Info("all documents and chunks removed")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
