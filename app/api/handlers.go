package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/outbreakwatch/newswire/app/cfg"
	"github.com/outbreakwatch/newswire/app/database"
)

const defaultRecordLimit = 100

type Handler struct {
	repo  *database.RecordRepository
	table string
}

func NewHandler(repo *database.RecordRepository, table string) *Handler {
	return &Handler{
		repo:  repo,
		table: table,
	}
}

// GetNews returns the latest stored records for a language.
func (h *Handler) GetNews(c *gin.Context) {
	language := c.Param("language")

	limit := defaultRecordLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	records, err := h.repo.GetRecords(h.table, language, limit)
	if err != nil {
		slog.Error("Failed to load records", "language", language, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": language,
		"count":    len(records),
		"records":  records,
	})
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.Get().Version,
	})
}

// GetStats reports per-language record counts.
func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.repo.GetRecordCount(h.table)
	if err != nil {
		slog.Error("Failed to load stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"table":     h.table,
		"total":     total,
		"languages": counts,
	})
}
