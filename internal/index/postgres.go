package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/careerintel/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Postgres is the pgvector-backed Store. Chunk similarity search runs on
// the database with cosine distance; document rows cascade to their chunks.
type Postgres struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPostgres(ctx context.Context, connString string, dim int) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool, dim: dim}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Dimension() int {
	return p.dim
}

// creates the documents and chunk_embeddings tables if they do not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	if _, err := p.pool.Exec(ctx, createDocumentsTableQuery); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	if _, err := p.pool.Exec(ctx, fmt.Sprintf(createChunksTableQuery, p.dim)); err != nil {
		return fmt.Errorf("failed to create chunk_embeddings table: %w", err)
	}

	if _, err := p.pool.Exec(ctx, createChunksIndexQuery); err != nil {
		return fmt.Errorf("failed to create chunk index: %w", err)
	}

	return nil
}

func (p *Postgres) SaveResume(ctx context.Context, doc Document, chunks []ChunkRecord) (*Document, error) {
	if err := checkDimensions(p.dim, chunks); err != nil {
		return nil, err
	}

	doc.Type = DocTypeResume
	doc.RefNumber = 0
	fillCounts(&doc, chunks)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	// replacing the resume is a single transaction so readers either see
	// the old one or the new one, never both
	if _, err := tx.Exec(ctx, deleteResumesQuery); err != nil {
		return nil, fmt.Errorf("failed to delete prior resume: %w", err)
	}

	if err := insertDocumentTx(ctx, tx, doc, chunks); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &doc, nil
}

func (p *Postgres) SaveJobPosting(ctx context.Context, doc Document, chunks []ChunkRecord) (*Document, error) {
	if err := checkDimensions(p.dim, chunks); err != nil {
		return nil, err
	}

	doc.Type = DocTypeJobPosting
	fillCounts(&doc, chunks)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	if err := tx.QueryRow(ctx, nextRefNumberQuery).Scan(&doc.RefNumber); err != nil {
		return nil, fmt.Errorf("failed to assign reference number: %w", err)
	}

	if err := insertDocumentTx(ctx, tx, doc, chunks); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &doc, nil
}

func insertDocumentTx(ctx context.Context, tx pgx.Tx, doc Document, chunks []ChunkRecord) error {
	_, err := tx.Exec(ctx, insertDocumentQuery,
		doc.ID,
		string(doc.Type),
		doc.Filename,
		doc.RefNumber,
		doc.ChunkCount,
		doc.WordCount,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	batch := &pgx.Batch{}

	for _, c := range chunks {
		batch.Queue(insertChunkQuery,
			c.ID,
			doc.ID,
			c.Index,
			c.Text,
			c.WordCount,
			c.TotalChunks,
			pgvector.NewVector(c.Embedding),
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(chunks) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return nil
}

func (p *Postgres) UpsertChunks(ctx context.Context, chunks []ChunkRecord) error {
	if err := checkDimensions(p.dim, chunks); err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}

	for _, c := range chunks {
		batch.Queue(insertChunkQuery,
			c.ID,
			c.DocumentID,
			c.Index,
			c.Text,
			c.WordCount,
			c.TotalChunks,
			pgvector.NewVector(c.Embedding),
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(chunks) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return fmt.Errorf("failed to upsert chunk %d: %w", i, err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (p *Postgres) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	doc, err := p.GetDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}

	if _, err := p.pool.Exec(ctx, deleteDocumentQuery, documentID); err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}

	return doc.ChunkCount, nil
}

func (p *Postgres) DeleteJobPosting(ctx context.Context, refNumber int) (int, error) {
	var removed int

	err := p.pool.QueryRow(ctx, deleteJobPostingQuery, refNumber).Scan(&removed)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDocumentNotFound
	}

	if err != nil {
		return 0, fmt.Errorf("failed to delete job posting: %w", err)
	}

	return removed, nil
}

func (p *Postgres) Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error) {
	if len(vector) != p.dim {
		return nil, ErrDimensionMismatch
	}

	var (
		docType    *string
		refNumber  *int
		documentID *string
	)

	if filter != nil {
		if filter.DocType != "" {
			dt := string(filter.DocType)
			docType = &dt
		}

		if filter.RefNumber > 0 {
			ref := filter.RefNumber
			refNumber = &ref
		}

		if filter.DocumentID != "" {
			id := filter.DocumentID
			documentID = &id
		}
	}

	rows, err := p.pool.Query(ctx, queryChunksQuery,
		pgvector.NewVector(vector), k, docType, refNumber, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var matches []Match

	for rows.Next() {
		var m Match

		err := rows.Scan(
			&m.Chunk.ID, &m.Chunk.DocumentID, &m.Chunk.Index, &m.Chunk.Text,
			&m.Chunk.WordCount, &m.Chunk.TotalChunks, &m.Similarity,
			&m.Document.ID, &m.Document.Type, &m.Document.Filename, &m.Document.RefNumber,
			&m.Document.ChunkCount, &m.Document.WordCount, &m.Document.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}

	return matches, nil
}

func (p *Postgres) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	return p.scanDocument(p.pool.QueryRow(ctx, getDocumentQuery, documentID))
}

func (p *Postgres) GetJobPosting(ctx context.Context, refNumber int) (*Document, error) {
	return p.scanDocument(p.pool.QueryRow(ctx, getJobPostingQuery, refNumber))
}

func (p *Postgres) scanDocument(row pgx.Row) (*Document, error) {
	var doc Document

	err := row.Scan(&doc.ID, &doc.Type, &doc.Filename, &doc.RefNumber,
		&doc.ChunkCount, &doc.WordCount, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

func (p *Postgres) DocumentExists(ctx context.Context, documentID string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx, documentExistsQuery, documentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}

	return exists, nil
}

func (p *Postgres) GetStats(ctx context.Context) (*Stats, error) {
	rows, err := p.pool.Query(ctx, getStatsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{}

	for rows.Next() {
		var doc Document

		err := rows.Scan(&doc.ID, &doc.Type, &doc.Filename, &doc.RefNumber,
			&doc.ChunkCount, &doc.WordCount, &doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}

		stats.TotalChunks += doc.ChunkCount

		switch doc.Type {
		case DocTypeResume:
			stats.ResumeChunks = doc.ChunkCount
			stats.ResumeFilename = doc.Filename
			stats.ResumeWordCount = doc.WordCount
		case DocTypeJobPosting:
			stats.JobPostingChunks += doc.ChunkCount
			stats.JobPostings = append(stats.JobPostings, JobPostingStat{
				RefNumber:  doc.RefNumber,
				Filename:   doc.Filename,
				ChunkCount: doc.ChunkCount,
				WordCount:  doc.WordCount,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	return stats, nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, clearChunksQuery); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	if _, err := p.pool.Exec(ctx, clearDocumentsQuery); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	return nil
}

func fillCounts(doc *Document, chunks []ChunkRecord) {
	doc.ChunkCount = len(chunks)
	doc.WordCount = 0

	for _, c := range chunks {
		doc.WordCount += c.WordCount
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
}
