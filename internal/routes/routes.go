package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/cache"
	"github.com/yourorg/pointtally/internal/debug"
	"github.com/yourorg/pointtally/internal/handlers"
	"github.com/yourorg/pointtally/internal/middleware"
)

// Register monta la API completa. Todas las dependencias llegan por
// parámetro: no hay estado global de base de datos.
func Register(app *fiber.App, st handlers.AccountStore, pinger handlers.Pinger, issuer *auth.TokenIssuer, snapshots *cache.Cache) {
	api := app.Group("/api")

	// Health check (sin rate limiting)
	api.Get("/health", handlers.NewHealthHandler(pinger).Health)

	// ============================================================================
	// AUTENTICACIÓN (con rate limiting estricto)
	// ============================================================================
	authHandler := handlers.NewAuthHandler(st, issuer)
	api.Post("/signup", middleware.AuthRateLimiter(), authHandler.Signup)
	api.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)

	// ============================================================================
	// CUENTA AUTENTICADA (points + buttons)
	// ============================================================================
	accountHandler := handlers.NewAccountHandler(st, snapshots)
	requireAuth := middleware.RequireAuth(issuer)

	api.Get("/points", requireAuth, accountHandler.GetPoints)
	api.Post("/points", requireAuth, accountHandler.UpdatePoints)
	api.Get("/user-data", requireAuth, accountHandler.GetUserData)
	api.Post("/buttons", requireAuth, accountHandler.UpdateButtons)

	// ============================================================================
	// STATISTICS
	// ============================================================================
	stats := api.Group("/stats")
	stats.Get("/cache", handlers.NewCacheStatsHandler(snapshots).GetCacheStats)

	// ============================================================================
	// DEBUG DASHBOARD
	// ============================================================================
	// Endpoints para recibir logs y errores desde el cliente web
	debugApi := api.Group("/debug")
	debugApi.Post("/log", handlers.ReceiveClientLog)
	debugApi.Post("/error", handlers.ReceiveClientError)

	// WebSocket para el dashboard web (siempre disponible)
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
