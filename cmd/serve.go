package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devandanger/firebase-utils/core/config"
	"github.com/devandanger/firebase-utils/core/firestore"
	"github.com/devandanger/firebase-utils/core/logger"
	"github.com/devandanger/firebase-utils/core/middleware/requestid"
	"github.com/devandanger/firebase-utils/feature/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs the comparison service as an HTTP server, for CI
// pipelines that poll parity instead of shelling out to the CLI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison service as an HTTP server",
	Long: `Starts an HTTP server exposing the document and collection
comparison endpoints:

  GET /v1/compare/document/<path>
  GET /v1/compare/collection/<path>
  GET /health`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Build the comparison service
		source, err := firestore.NewClient(cfg.Source)
		if err != nil {
			logg.Fatal("Source client setup failed", zap.Error(err))
		}
		target, err := firestore.NewClient(cfg.Target)
		if err != nil {
			logg.Fatal("Target client setup failed", zap.Error(err))
		}
		service := compare.NewService(source, target, compare.Options{}, logg)

		// 4. Assemble the HTTP app
		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Use(requestid.New())

		if cfg.Server.RequiresAuth() {
			app.Use(func(c *fiber.Ctx) error {
				if c.Get("X-Api-Key") != cfg.Server.ApiKey {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "invalid api key",
					})
				}
				return c.Next()
			})
		}

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		compare.NewHandler(service).RegisterRoutes(app)

		// 5. Start and wait for shutdown signal
		go func() {
			logg.Info("Server listening", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logg.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			logg.Error("Shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
