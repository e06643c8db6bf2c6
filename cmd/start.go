package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"listing-manager/core/loader"
	"listing-manager/core/logger"
	"listing-manager/core/middleware/auth"
	"listing-manager/core/middleware/rayid"
	"listing-manager/feature/listings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "listing-manager/docs/swagger"
)

// @title Listing Manager API
// @version 1.0
// @description Status and control API for the backpack.tf listing manager.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the listing manager server",
	Long: `Loads the current listings, starts the heartbeat and inventory intervals
and serves the HTTP API until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, sinks and engine
		s, err := openSession(context.Background(), true)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer s.close()
		logg := s.logger
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(listings.NewFeature(s.manager, logg))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger documentation (public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: s.cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		addr := s.cfg.Server.Address()
		go func() {
			logg.Info("Starting server", zap.String("address", addr))
			if err := app.Listen(addr); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(s.cfg.Server.ShutdownTimeout); err != nil {
			logg.Warn("Server shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
