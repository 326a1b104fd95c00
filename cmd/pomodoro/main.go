package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	_ "pomodoro/docs"
	"pomodoro/internal"
	"pomodoro/internal/config"
	"pomodoro/web"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title           Pomodoro API
// @version         1.0
// @description     Focus/break countdown timer with daily, monthly and yearly focus statistics
// @BasePath        /

func main() {
	var (
		configPath string
		addr       string
		debug      bool
		initConfig bool
	)
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address, overrides the config (e.g. ':8080')")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&initConfig, "init", false, "Write the effective config to -config and exit")
	flag.Parse()

	log.SetTimeFormat(time.Stamp)
	log.SetReportCaller(true)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config", "path", configPath, "err", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	if initConfig {
		if err := cfg.Save(configPath); err != nil {
			log.Fatal("Failed to write config", "err", err)
		}
		log.Info("Config written", "path", configPath)
		return
	}

	server, err := pomodoro.NewServer(cfg, web.Static())
	if err != nil {
		log.Fatal("Failed to initialize server", "err", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", server.SetupRoutes())
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Run(ctx)

	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Info("Server starting on", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "err", err)
	}
	if err := server.Close(); err != nil {
		log.Error("Failed to close server", "err", err)
	}
}
