package index

const (
	createDocumentsTableQuery = `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			doc_type TEXT NOT NULL,
			filename TEXT NOT NULL,
			ref_number INTEGER NOT NULL DEFAULT 0,
			chunk_count INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	createChunksTableQuery = `
		CREATE TABLE IF NOT EXISTS chunk_embeddings (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			word_count INTEGER NOT NULL DEFAULT 0,
			total_chunks INTEGER NOT NULL DEFAULT 0,
			embedding vector(%d) NOT NULL
		)
	`
	createChunksIndexQuery = `
		CREATE INDEX IF NOT EXISTS chunk_embeddings_document_id_idx
		ON chunk_embeddings (document_id)
	`

	insertDocumentQuery = `
		INSERT INTO documents (id, doc_type, filename, ref_number, chunk_count, word_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	insertChunkQuery = `
		INSERT INTO chunk_embeddings (id, document_id, chunk_index, content, word_count, total_chunks, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			chunk_index = EXCLUDED.chunk_index,
			content = EXCLUDED.content,
			word_count = EXCLUDED.word_count,
			total_chunks = EXCLUDED.total_chunks,
			embedding = EXCLUDED.embedding
	`

	deleteResumesQuery     = "DELETE FROM documents WHERE doc_type = 'resume'"
	deleteDocumentQuery    = "DELETE FROM documents WHERE id = $1"
	deleteJobPostingQuery  = "DELETE FROM documents WHERE doc_type = 'job_posting' AND ref_number = $1 RETURNING chunk_count"
	nextRefNumberQuery     = "SELECT COALESCE(MAX(ref_number), 0) + 1 FROM documents WHERE doc_type = 'job_posting'"
	documentExistsQuery    = "SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)"
	clearChunksQuery       = "DELETE FROM chunk_embeddings"
	clearDocumentsQuery    = "DELETE FROM documents"
	getDocumentQuery       = `
		SELECT id, doc_type, filename, ref_number, chunk_count, word_count, created_at
		FROM documents WHERE id = $1
	`
	getJobPostingQuery = `
		SELECT id, doc_type, filename, ref_number, chunk_count, word_count, created_at
		FROM documents WHERE doc_type = 'job_posting' AND ref_number = $1
	`
	getStatsQuery = `
		SELECT id, doc_type, filename, ref_number, chunk_count, word_count, created_at
		FROM documents ORDER BY ref_number
	`

	queryChunksQuery = `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.word_count, c.total_chunks,
		       1 - (c.embedding <=> $1) AS similarity,
		       d.id, d.doc_type, d.filename, d.ref_number, d.chunk_count, d.word_count, d.created_at
		FROM chunk_embeddings c
		JOIN documents d ON d.id = c.document_id
		WHERE ($3::text IS NULL OR d.doc_type = $3)
		  AND ($4::int IS NULL OR d.ref_number = $4)
		  AND ($5::text IS NULL OR d.id = $5)
		ORDER BY c.embedding <=> $1
		LIMIT $2
	`
)
