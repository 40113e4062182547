// The monitor daemon runs one plan's evaluation loop headlessly, configured
// entirely from environment and config file. It is the deployment entrypoint
// for running triaia as a long-lived service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/GuardianAI1/triaia/internal/cloud/gcp"
	"github.com/GuardianAI1/triaia/internal/config"
	"github.com/GuardianAI1/triaia/internal/events"
	"github.com/GuardianAI1/triaia/internal/monitor"
	"github.com/GuardianAI1/triaia/internal/plan"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Triaia monitor starting")

	viper.SetConfigType("yaml")
	viper.SetConfigName(".triaia")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("TRIAIA")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateForActivate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	p, err := plan.LoadFile(cfg.Plan.File)
	if err != nil {
		log.Fatalf("Failed to load plan: %v", err)
	}
	activated, err := p.Activate(time.Now())
	if err != nil {
		log.Fatalf("Failed to activate plan: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	logger := gcp.NewLogger(ctx, cfg.Cloud.Project, activated.ID)
	defer func() { _ = logger.Close() }()

	var secrets gcp.SecretFetcher
	if cfg.Cloud.Project != "" && gcp.IsSecretRef(cfg.Couplings.Planner.Token) {
		sm, err := gcp.NewSecretManagerClient(ctx)
		if err != nil {
			log.Fatalf("Failed to create secret client: %v", err)
		}
		secrets = sm
		defer func() { _ = sm.Close() }()
	}

	sink, err := events.NewFileSink(cfg.Monitor.EventsDir)
	if err != nil {
		log.Fatalf("Failed to open events stream: %v", err)
	}
	defer func() { _ = sink.Close() }()

	m, err := monitor.New(ctx, monitor.Options{
		Config:  cfg,
		Plan:    activated,
		Logger:  logger,
		Sink:    sink,
		Secrets: secrets,
	})
	if err != nil {
		log.Fatalf("Failed to create monitor: %v", err)
	}

	if err := m.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Monitor exited with error: %v", err)
		os.Exit(1)
	}

	log.Println("Monitor stopped")
}
