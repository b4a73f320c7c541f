package documents

import (
	"codeberg.org/careerintel/server/internal/index"
	"codeberg.org/careerintel/server/internal/ingest"
	"github.com/gin-gonic/gin"
)

// registers document management routes
func RegisterRoutes(router *gin.RouterGroup, svc *ingest.Service, store index.Store) {
	router.POST("/documents/resume", UploadResumeHandler(svc))
	router.POST("/documents/jobs", UploadJobHandler(svc))
	router.DELETE("/documents/jobs/:ref", DeleteJobHandler(store))
	router.GET("/documents/stats", StatsHandler(store))
}
