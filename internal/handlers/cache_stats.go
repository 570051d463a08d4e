package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/pointtally/internal/cache"
)

// ============================================================================
// CACHE STATISTICS ENDPOINT
// ============================================================================
// Endpoint para monitorear el estado del caché de snapshots en producción
// GET /api/stats/cache

// CacheStatsHandler expone las estadísticas del caché de snapshots.
type CacheStatsHandler struct {
	snapshots *cache.Cache
}

func NewCacheStatsHandler(snapshots *cache.Cache) *CacheStatsHandler {
	return &CacheStatsHandler{snapshots: snapshots}
}

// GetCacheStats retorna estadísticas del caché activo
func (h *CacheStatsHandler) GetCacheStats(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return c.JSON(fiber.Map{"status": "disabled"})
	}

	stats := h.snapshots.GetStats()
	return c.JSON(fiber.Map{
		"status": "ok",
		"snapshots": fiber.Map{
			"total_items":   stats.TotalItems,
			"valid_items":   stats.ValidItems,
			"expired_items": stats.ExpiredItems,
			"memory_est_mb": stats.MemoryEstMB,
		},
	})
}
