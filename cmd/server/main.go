package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/chesscore/internal/controller"
	"github.com/benbeisheim/chesscore/internal/middleware"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Flags (env fallbacks).
	addr := flag.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := flag.String("origins", getenv("CHESS_ORIGINS", "http://localhost:5173"), "comma-separated allowed origins")
	clock := flag.Duration("clock", getenvDuration("CHESS_CLOCK", 10*time.Minute), "initial time per player")
	matchInterval := flag.Duration("match-interval", getenvDuration("CHESS_MATCH_INTERVAL", time.Second), "how often the matchmaking queue is paired")
	retention := flag.Duration("retention", getenvDuration("CHESS_FINISHED_RETENTION", 5*time.Minute), "how long finished games stay readable")
	pendingTTL := flag.Duration("pending-ttl", getenvDuration("CHESS_PENDING_MATCH_TTL", 2*time.Minute), "how long an unclaimed match event is kept")
	level := flag.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "debug, info, warn or error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "chess",
	})
	lvl, err := log.ParseLevel(*level)
	if err != nil {
		logger.Fatal("bad log level", "level", *level, "err", err)
	}
	logger.SetLevel(lvl)

	app := fiber.New(fiber.Config{
		AppName:               "chesscore",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     *origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: *origins != "*",
	}))
	app.Use(middleware.RequestLogger(logger))

	gameManager := service.NewGameManager(service.ManagerConfig{
		ClockTime:         *clock,
		MatchInterval:     *matchInterval,
		FinishedRetention: *retention,
		PendingMatchTTL:   *pendingTTL,
		Logger:            logger,
	})
	gameService := service.NewGameService(gameManager)
	controller.RegisterRoutes(app, gameService, logger, splitCSV(*origins))

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", *addr, "clock", *clock)
	if err := app.Listen(*addr); err != nil {
		logger.Fatal("listen", "err", err)
	}
	gameManager.Close()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("ignoring bad duration", "var", k, "value", v)
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
