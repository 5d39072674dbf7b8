package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	storePath := flag.String("store", "scores.json", "path to the score store file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	var zapLogger *zap.Logger
	var err error
	if *debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	store, err := OpenStore(*storePath)
	if err != nil {
		logger.Fatalw("open store failed", "path", *storePath, "error", err)
	}

	apiKey := os.Getenv("TERTRIS_SCORE_API_KEY")
	router := NewRouter(store, apiKey, logger)

	logger.Infow("scored listening", "addr", *addr, "store", *storePath, "auth", apiKey != "")
	if err := router.Run(*addr); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
