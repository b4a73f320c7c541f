package main

import (
	"os"
	"strings"
	"time"

	"codeberg.org/careerintel/server/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// configures cross-origin access from ALLOWED_ORIGINS; development
// allows everything
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")

		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		config.AllowOrigins = parts
	} else {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}

	return cors.New(config)
}

// limits each client IP to a request budget per minute, backed by an
// in-memory store
func RateLimitMiddleware() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted("120-M")
	if err != nil {
		logger.Fatal("failed to parse rate limit", "error", err)
	}

	store := memorystore.NewStore()

	return mgin.NewMiddleware(limiter.New(store, rate))
}
