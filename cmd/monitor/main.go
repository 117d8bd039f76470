package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/alerting"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/monitor"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/monitoring"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/report"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/scheduler"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/config"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/data"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/portfolio"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	once := flag.Bool("once", false, "Run a single scan and exit")
	force := flag.Bool("force", false, "Ignore the market-hours gate")
	noSummary := flag.Bool("no-summary", false, "Skip the portfolio digest email")
	initPortfolio := flag.Bool("init-portfolio", false, "Write a starter portfolio workbook and exit")
	flag.Parse()

	// .env is optional; CI passes real environment variables
	if err := godotenv.Load(); err == nil {
		log.Println("📋 Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	if *initPortfolio {
		if err := portfolio.WriteSample(cfg.Portfolio.File); err != nil {
			log.Fatalf("❌ Failed to write sample portfolio: %v", err)
		}
		log.Printf("✅ Starter portfolio written to %s", cfg.Portfolio.File)
		return
	}

	svc, cleanup, err := buildService(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer cleanup()
	svc.SetSummaryEnabled(!*noSummary)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, svc)
	}

	if *once {
		if _, err := svc.RunScan(ctx); err != nil {
			log.Fatalf("❌ Scan failed: %v", err)
		}
		return
	}

	sched := scheduler.New(cfg.Schedule.MarketHoursOnly && !*force)
	if err := sched.Register(cfg.Schedule.Cron, func() {
		if _, err := svc.RunScan(ctx); err != nil {
			log.Printf("❌ Scan failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("❌ %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// First scan right away so a fresh deploy reports immediately
	go func() {
		if _, err := svc.RunScan(ctx); err != nil {
			log.Printf("❌ Initial scan failed: %v", err)
		}
	}()

	log.Println("👀 Portfolio monitor running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received, stopping...")
	cancel()
}

func buildService(cfg *config.Config) (*monitor.Service, func(), error) {
	var provider data.HistoryProvider
	switch cfg.Data.Provider {
	case "csv":
		provider = data.NewCSVProvider(cfg.Data.CSVDir)
	default:
		provider = data.NewYahooProvider()
	}
	log.Printf("📡 Data source: %s", provider.GetName())

	if cfg.Data.CacheTTLMinutes > 0 {
		provider = data.NewCachedProvider(provider, time.Duration(cfg.Data.CacheTTLMinutes)*time.Minute)
	}
	manager := data.NewManager(provider)

	loader := portfolio.NewLoaderWithSheet(cfg.Portfolio.File, cfg.Portfolio.Sheet)

	var store alerting.CooldownStore
	cleanup := func() {}
	if cfg.Database.SQLitePath != "" {
		sqlStore, err := alerting.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("⚠️ SQLite store unavailable, cooldowns in memory only: %v", err)
			store = alerting.NewMemoryStore()
		} else {
			store = sqlStore
			cleanup = func() { sqlStore.Close() }
		}
	} else {
		store = alerting.NewMemoryStore()
	}

	sender := alerting.NewSMTPSender(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.Sender, cfg.Email.Password, cfg.Email.Recipient,
	)
	if cfg.Email.Enabled && !sender.Configured() {
		return nil, nil, fmt.Errorf("email enabled but credentials incomplete")
	}

	svc := monitor.NewService(cfg, loader, manager, store, sender, report.NewConsoleReporter())
	return svc, cleanup, nil
}

func serveMetrics(addr string, svc *monitor.Service) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", svc.Health())

	log.Printf("📊 Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("❌ Metrics server: %v", err)
	}
}
