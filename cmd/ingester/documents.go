package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/careerintel/server/internal/chunker"
	"codeberg.org/careerintel/server/internal/config"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/ingest"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/logger"
)

// IngestResumeFile reads a local text file and stores it as the resume
func IngestResumeFile(ctx context.Context, cfg *config.Config, store index.Store, flags config.Flags) error {
	svc, err := buildIngestService(store)
	if err != nil {
		return err
	}

	filename, text, err := readDocument(flags)
	if err != nil {
		return err
	}

	doc, err := svc.IngestResume(ctx, filename, text)
	if err != nil {
		return err
	}

	fmt.Printf("resume stored: %s (%d chunks, %d words)\n",
		doc.Filename, doc.ChunkCount, doc.WordCount)

	return nil
}

// IngestJobFile reads a local text file and stores it as a job posting
func IngestJobFile(ctx context.Context, cfg *config.Config, store index.Store, flags config.Flags) error {
	svc, err := buildIngestService(store)
	if err != nil {
		return err
	}

	filename, text, err := readDocument(flags)
	if err != nil {
		return err
	}

	doc, err := svc.IngestJobPosting(ctx, filename, text)
	if err != nil {
		return err
	}

	fmt.Printf("job posting stored as Job #%d: %s (%d chunks, %d words)\n",
		doc.RefNumber, doc.Filename, doc.ChunkCount, doc.WordCount)

	return nil
}

// PrintStats shows the document registry contents
func PrintStats(ctx context.Context, store index.Store) error {
	stats, err := store.GetStats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("total chunks: %d\n", stats.TotalChunks)

	if stats.ResumeFilename != "" {
		fmt.Printf("resume: %s (%d chunks, %d words)\n",
			stats.ResumeFilename, stats.ResumeChunks, stats.ResumeWordCount)
	} else {
		fmt.Println("resume: none stored")
	}

	if len(stats.JobPostings) == 0 {
		fmt.Println("job postings: none stored")
		return nil
	}

	for _, jp := range stats.JobPostings {
		fmt.Printf("Job #%d: %s (%d chunks, %d words)\n",
			jp.RefNumber, jp.Filename, jp.ChunkCount, jp.WordCount)
	}

	return nil
}

func buildIngestService(store index.Store) (*ingest.Service, error) {
	llmClient, err := llm.NewLLM()
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return ingest.NewService(chunker.New(chunker.DefaultOptions()), llmClient, store), nil
}

func readDocument(flags config.Flags) (filename, text string, err error) {
	if flags.Path == "" {
		return "", "", fmt.Errorf("--path is required")
	}

	data, err := os.ReadFile(flags.Path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}

	filename = flags.Filename
	if filename == "" {
		filename = filepath.Base(flags.Path)
	}

	logger.Info("read document", "path", flags.Path, "bytes", len(data))

	return filename, string(data), nil
}
