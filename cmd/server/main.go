package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/cache"
	appdb "github.com/yourorg/pointtally/internal/db"
	"github.com/yourorg/pointtally/internal/middleware"
	"github.com/yourorg/pointtally/internal/routes"
	"github.com/yourorg/pointtally/internal/store"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.GlobalRateLimiter())
	app.Use(middleware.MetricsMiddleware())

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	db, err := appdb.Connect()
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	for i := 0; ; i++ {
		if err := appdb.EnsureSchema(db); err != nil {
			if i >= 12 {
				log.Fatalf("ensure schema error: %v (giving up)", err)
			}
			log.Printf("ensure schema error: %v (retrying in 5s)", err)
			time.Sleep(5 * time.Second)
			continue
		}
		break
	}
	log.Printf("✅ Database ready")

	st := store.New(db)
	issuer := auth.NewTokenIssuerFromEnv()

	// Caché de snapshots para GET /api/user-data; se invalida en cada
	// escritura de points o buttons.
	snapshots := cache.NewCache(30*time.Second, time.Minute)

	seedDefaultAccount(st)

	routes.Register(app, st, st, issuer, snapshots)

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Señal de terminación recibida, cerrando servidor...")

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error cerrando servidor: %v", err)
		}
		snapshots.Stop()
		if err := db.Close(); err != nil {
			log.Printf("⚠️  Error cerrando base de datos: %v", err)
		}

		log.Println("✅ Servidor cerrado correctamente")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Servidor escuchando en :%s", port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   POST /api/signup     - Crear cuenta")
	log.Println("   POST /api/login      - Iniciar sesión")
	log.Println("   GET  /api/points     - Leer puntos")
	log.Println("   POST /api/points     - Guardar puntos (clamp en 0)")
	log.Println("   GET  /api/user-data  - Snapshot points + buttons")
	log.Println("   POST /api/buttons    - Reemplazar lista de botones")
	log.Println("💡 Presiona Ctrl+C para detener")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}

// seedDefaultAccount recreates the original deployment's default user,
// pero con credenciales desde el entorno en vez de hardcodeadas.
func seedDefaultAccount(st *store.Store) {
	username := os.Getenv("DEFAULT_USERNAME")
	password := os.Getenv("DEFAULT_PASSWORD")
	if username == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := st.CreateAccount(ctx, username, "", password)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return
		}
		log.Printf("⚠️  Error creando cuenta por defecto: %v", err)
		return
	}
	log.Printf("✅ Cuenta por defecto creada: %s", username)
}
