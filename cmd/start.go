package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copy-environment/core/loader"
	"copy-environment/core/logger"
	"copy-environment/core/middleware/auth"
	"copy-environment/core/middleware/rayid"
	"copy-environment/feature/environment"
	"copy-environment/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "copy-environment/docs/swagger"
)

// @title Copy Environment API
// @version 1.0
// @description Export a world environment and selectively import snapshots.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var exportCacheTTL time.Duration

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the copy-environment server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		logg = logg.With(zap.String("actor", a.cfg.World.Actor))
		logg.Info("Connected to world database", zap.String("driver", a.cfg.Database.Driver))

		archive, client := a.archive()
		svc := environment.NewService(a.store, archive, logg, a.options(), exportCacheTTL)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             a.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager()
		mgr.Register(environment.NewFeature(svc))
		mgr.Register(integrity.NewFeature(client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.cfg.World.SnapshotPrefix, logg, a.db))

		// Ray id first so every later log line carries it.
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

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	startCmd.Flags().DurationVar(&exportCacheTTL, "export-cache", 30*time.Second, "How long an export is reused between requests (0 disables)")
	RootCmd.AddCommand(startCmd)
}
