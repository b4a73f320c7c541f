package documents

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"codeberg.org/careerintel/server/internal/chunker"
	"codeberg.org/careerintel/server/internal/errors"
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/ingest"
	"github.com/gin-gonic/gin"
)

// creates a handler that ingests the resume, replacing any prior one
func UploadResumeHandler(svc *ingest.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UploadRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		doc, err := svc.IngestResume(c.Request.Context(), req.Filename, req.Text)
		if err != nil {
			respondIngestError(c, err)
			return
		}

		c.JSON(http.StatusCreated, uploadResponse(doc))
	}
}

// creates a handler that ingests a job posting under a new reference
// number
func UploadJobHandler(svc *ingest.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UploadRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		doc, err := svc.IngestJobPosting(c.Request.Context(), req.Filename, req.Text)
		if err != nil {
			respondIngestError(c, err)
			return
		}

		c.JSON(http.StatusCreated, uploadResponse(doc))
	}
}

// creates a handler that deletes a job posting by reference number
func DeleteJobHandler(store index.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := strconv.Atoi(c.Param("ref"))
		if err != nil || ref <= 0 {
			errors.BadRequest(c, "invalid job reference number", nil)
			return
		}

		removed, err := store.DeleteJobPosting(c.Request.Context(), ref)
		if stderrors.Is(err, index.ErrDocumentNotFound) {
			errors.NotFound(c, "job posting")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to delete job posting", err)
			return
		}

		c.JSON(http.StatusOK, DeleteResponse{
			RefNumber:     ref,
			ChunksRemoved: removed,
		})
	}
}

// creates a handler serving registry statistics
func StatsHandler(store index.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.GetStats(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to load document stats", err)
			return
		}

		resp := StatsResponse{
			TotalChunks:      stats.TotalChunks,
			ResumeChunks:     stats.ResumeChunks,
			JobPostingChunks: stats.JobPostingChunks,
			ResumeFilename:   stats.ResumeFilename,
			ResumeWordCount:  stats.ResumeWordCount,
			JobPostings:      make([]JobPostingInfo, 0, len(stats.JobPostings)),
		}

		for _, jp := range stats.JobPostings {
			resp.JobPostings = append(resp.JobPostings, JobPostingInfo{
				RefNumber:  jp.RefNumber,
				Filename:   jp.Filename,
				ChunkCount: jp.ChunkCount,
				WordCount:  jp.WordCount,
			})
		}

		c.JSON(http.StatusOK, resp)
	}
}

func respondIngestError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, chunker.ErrEmptyDocument):
		errors.BadRequest(c, "document contains no text", err)
	case stderrors.Is(err, index.ErrDimensionMismatch):
		errors.InternalError(c, "embedding dimensionality mismatch", err)
	default:
		errors.InternalError(c, "failed to ingest document", err)
	}
}
