package retriever

import (
	"os"
	"strconv"
)

const (
	defaultTopK            = 5
	defaultFetchMultiplier = 4
	defaultLambda          = 0.5
)

// loadRetrieverConfig loads configuration from environment variables
func loadRetrieverConfig() *RetrieverConfig {
	topK := defaultTopK
	if topKStr := os.Getenv("RETRIEVAL_TOP_K"); topKStr != "" {
		if val, err := strconv.Atoi(topKStr); err == nil && val > 0 {
			topK = val
		}
	}

	multiplier := defaultFetchMultiplier
	if multStr := os.Getenv("RETRIEVAL_FETCH_MULTIPLIER"); multStr != "" {
		if val, err := strconv.Atoi(multStr); err == nil && val > 0 {
			multiplier = val
		}
	}

	lambda := defaultLambda
	if lambdaStr := os.Getenv("RETRIEVAL_MMR_LAMBDA"); lambdaStr != "" {
		if val, err := strconv.ParseFloat(lambdaStr, 64); err == nil && val >= 0 && val <= 1 {
			lambda = val
		}
	}

	return &RetrieverConfig{
		TopK:            topK,
		FetchMultiplier: multiplier,
		Lambda:          lambda,
	}
}
