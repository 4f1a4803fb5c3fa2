package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/submit-bridge/backend/conf"
	"github.com/submit-bridge/backend/http"
	"github.com/submit-bridge/backend/notify"
	"github.com/submit-bridge/backend/relaysrvc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, continuing with process env")
	}

	cfg, err := conf.Load(os.Getenv("BRIDGE_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	relay := relaysrvc.NewRelaySrvc(relaysrvc.Options{
		DefaultLanguage:   cfg.DefaultLanguage,
		ResolvedRetention: cfg.ResolvedRetention(),
		MaxPendingAge:     cfg.PendingMaxAge(),
		SweepInterval:     cfg.SweepInterval(),
	})

	httpServer := http.NewHttpServer(relay, notify.NewDesktopNotifier(), cfg)

	log.Printf("Starting %s on %s", cfg.ContestName, cfg.ListenAddr)
	err = httpServer.Start(cfg.ListenAddr)
	log.Printf("Server stopped with error: %v", err)
}
