package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"calendar-reconciler/core/loader"
	"calendar-reconciler/core/logger"
	"calendar-reconciler/core/middleware/auth"
	"calendar-reconciler/core/middleware/rayid"

	"calendar-reconciler/feature/calendar"
	"calendar-reconciler/feature/ical"
	"calendar-reconciler/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "calendar-reconciler/docs/swagger"
)

// @title Calendar Reconciler API
// @version 1.0
// @description Reconciles unit bookings with external calendar feeds and serves availability.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the calendar reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		logg.Info("Connected to bookings database", zap.String("driver", rt.cfg.Database.Driver))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(calendar.NewFeature(rt.repo, rt.events, rt.cfg.Calendar, rt.timezone, logg))
		mgr.Register(ical.NewFeature(rt.repo, rt.engine, rt.acks, rt.acknowledger, rt.cfg.Reconcile, rt.cfg.Export, rt.timezone, logg))
		mgr.Register(integrity.NewFeature(rt.db, rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region, logg))

		// RayID first so every log line carries it.
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

		// The export feed is fetched by the external platform with its own token.
		app.Use(auth.New(auth.Config{
			ApiKey:         rt.cfg.Server.ApiKey,
			JWTSecret:      rt.cfg.Server.JWTSecret,
			PublicPrefixes: []string{"/ical/export", "/swagger"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
