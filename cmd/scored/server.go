package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultLimit = 10

// NewRouter wires the score endpoints. When apiKey is non-empty every request
// must carry it in X-Api-Key.
func NewRouter(store *Store, apiKey string, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if apiKey != "" {
		router.Use(requireAPIKey(apiKey))
	}

	router.GET("/scores", func(c *gin.Context) {
		limit := defaultLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}
		c.JSON(http.StatusOK, store.Top(limit))
	})

	router.POST("/scores", func(c *gin.Context) {
		var entry Entry
		if err := c.ShouldBindJSON(&entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score payload"})
			return
		}
		if strings.TrimSpace(entry.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if entry.Score < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must not be negative"})
			return
		}
		saved, err := store.Add(entry)
		if err != nil {
			logger.Errorw("persist failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist score"})
			return
		}
		logger.Infow("score recorded", "name", saved.Name, "score", saved.Score)
		c.JSON(http.StatusCreated, saved)
	})

	return router
}

func requireAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Api-Key") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid api key"})
			return
		}
		c.Next()
	}
}
