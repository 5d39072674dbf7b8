package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Overridable at build time:
//
//	go build -ldflags "-X main.defaultScoreAPIURL=https://... -X main.defaultScoreAPIKey=..."
var (
	defaultScoreAPIURL string
	defaultScoreAPIKey string
)

// loadEnv reads a local .env if present, then fills in build-time defaults for
// anything the environment leaves unset.
func loadEnv() {
	_ = godotenv.Load()
	if defaultScoreAPIURL != "" {
		if _, exists := os.LookupEnv("TERTRIS_SCORE_API_URL"); !exists {
			_ = os.Setenv("TERTRIS_SCORE_API_URL", defaultScoreAPIURL)
		}
	}
	if defaultScoreAPIKey != "" {
		if _, exists := os.LookupEnv("TERTRIS_SCORE_API_KEY"); !exists {
			_ = os.Setenv("TERTRIS_SCORE_API_KEY", defaultScoreAPIKey)
		}
	}
}
