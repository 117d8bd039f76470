package monitor

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/alerting"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/analysis"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/monitoring"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/report"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/config"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/data"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// PortfolioLoader abstracts the Excel loader for testing.
type PortfolioLoader interface {
	Load() ([]types.PositionSpec, error)
}

// ScanSummary is the outcome of one scan cycle.
type ScanSummary struct {
	Results    []*analysis.EvaluationResult
	Failures   map[string]error
	AlertCount int
	EmailsSent int
}

// Service runs the monitoring loop: load portfolio, fetch prices,
// evaluate each position, report, and deliver cooldown-gated alerts.
type Service struct {
	cfg      *config.Config
	loader   PortfolioLoader
	manager  *data.Manager
	store    alerting.CooldownStore
	sender   alerting.Sender
	reporter *report.ConsoleReporter
	health   *monitoring.HealthChecker
	now      func() time.Time

	summaryEnabled bool
}

func NewService(cfg *config.Config, loader PortfolioLoader, manager *data.Manager, store alerting.CooldownStore, sender alerting.Sender, reporter *report.ConsoleReporter) *Service {
	return &Service{
		cfg:      cfg,
		loader:   loader,
		manager:  manager,
		store:    store,
		sender:   sender,
		reporter: reporter,
		health:   monitoring.NewHealthChecker(),
		now:      time.Now,

		summaryEnabled: true,
	}
}

// SetSummaryEnabled toggles the end-of-scan digest email.
func (s *Service) SetSummaryEnabled(enabled bool) {
	s.summaryEnabled = enabled
}

// Health exposes the health checker for the HTTP endpoint.
func (s *Service) Health() *monitoring.HealthChecker {
	return s.health
}

func (s *Service) analysisConfig() analysis.Config {
	return analysis.Config{
		TrailTrigger:           s.cfg.Analysis.TrailTriggerPct,
		SLAlertThreshold:       s.cfg.Analysis.SLAlertThreshold,
		SLApproachThresholdPct: s.cfg.Analysis.SLApproachThresholdPct,
		EnableMultiTimeframe:   s.cfg.Analysis.EnableMultiTimeframe,
	}
}

// RunScan executes one full portfolio scan cycle.
func (s *Service) RunScan(ctx context.Context) (*ScanSummary, error) {
	start := s.now()
	log.Println("🔍 Starting portfolio scan...")

	positions, err := s.loader.Load()
	if err != nil {
		monitoring.RecordError("portfolio_load")
		s.health.RecordError(err.Error())
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if len(positions) == 0 {
		log.Println("⚠️ No active positions in portfolio")
		s.health.RecordScan(0)
		return &ScanSummary{Failures: map[string]error{}}, nil
	}

	summary := s.evaluateAll(ctx, positions)

	s.reporter.PrintSummary(summary.Results)
	for _, res := range summary.Results {
		if len(res.Alerts) > 0 {
			s.reporter.PrintDetail(res)
		}
	}
	s.reporter.PrintFailures(summary.Failures)

	for _, res := range summary.Results {
		monitoring.RecordEvaluation(res.Position.Ticker, res.OverallStatus, res.PnLPercent, res.SLRisk.Score)
		for _, alert := range res.Alerts {
			monitoring.RecordAlert(string(alert.Priority))
			summary.AlertCount++
		}
	}

	if s.cfg.Email.Enabled {
		summary.EmailsSent = s.deliverAlerts(summary.Results)
		if s.summaryEnabled && summary.AlertCount > 0 {
			summary.EmailsSent += s.deliverSummary(summary.Results)
		}
	}

	elapsed := s.now().Sub(start)
	monitoring.RecordScan(elapsed)
	s.health.RecordScan(len(summary.Results))
	log.Printf("✅ Scan complete: %d positions, %d alerts, %d emails in %s",
		len(summary.Results), summary.AlertCount, summary.EmailsSent, elapsed.Round(time.Millisecond))

	return summary, nil
}

// evaluateAll fetches and evaluates positions concurrently, bounded by
// the configured worker count.
func (s *Service) evaluateAll(ctx context.Context, positions []types.PositionSpec) *ScanSummary {
	summary := &ScanSummary{Failures: make(map[string]error)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Concurrency)

	for _, pos := range positions {
		wg.Add(1)
		go func(pos types.PositionSpec) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := s.evaluateOne(ctx, pos)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failures[pos.Ticker] = err
				return
			}
			summary.Results = append(summary.Results, res)
		}(pos)
	}
	wg.Wait()

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Position.Ticker < summary.Results[j].Position.Ticker
	})
	return summary
}

func (s *Service) evaluateOne(ctx context.Context, pos types.PositionSpec) (*analysis.EvaluationResult, error) {
	series, err := s.manager.FetchEvaluationSeries(ctx, pos.Ticker)
	if err != nil {
		monitoring.RecordError("fetch_series")
		return nil, fmt.Errorf("fetch %s: %w", pos.Ticker, err)
	}

	var timeframes map[string][]types.OHLCV
	if s.cfg.Analysis.EnableMultiTimeframe {
		timeframes = s.manager.FetchTimeframes(ctx, pos.Ticker)
	}

	res, err := analysis.EvaluatePosition(pos, series, timeframes, s.analysisConfig())
	if err != nil {
		monitoring.RecordError("evaluate")
		return nil, err
	}
	return res, nil
}

// deliverAlerts sends one email per alert, skipping keys still inside
// their cooldown window. Cooldowns are only marked after a successful
// send.
func (s *Service) deliverAlerts(results []*analysis.EvaluationResult) int {
	cooldown := time.Duration(s.cfg.Email.CooldownMinutes) * time.Minute
	now := s.now()
	sent := 0

	for _, res := range results {
		for _, alert := range res.Alerts {
			key := alerting.CooldownKey(res.Position.Ticker, alert.Type)

			ok, err := s.store.CanSend(key, cooldown, now)
			if err != nil {
				log.Printf("❌ Cooldown check failed for %s: %v", key, err)
				monitoring.RecordError("cooldown_check")
				continue
			}
			if !ok {
				log.Printf("💤 Alert %s still in cooldown, skipping", key)
				continue
			}

			subject := alerting.FormatAlertSubject(res.Position.Ticker, alert)
			body := alerting.FormatAlertEmail(res.Position, res, alert, now)
			if err := s.sender.Send(subject, body); err != nil {
				log.Printf("❌ Failed to send alert for %s: %v", res.Position.Ticker, err)
				monitoring.RecordError("email_send")
				continue
			}

			if err := s.store.MarkSent(key, now); err != nil {
				log.Printf("⚠️ Failed to record cooldown for %s: %v", key, err)
			}
			if err := s.store.Record(alerting.SentAlert{
				Ticker:    res.Position.Ticker,
				AlertType: alert.Type,
				Priority:  string(alert.Priority),
				Message:   alert.Message,
				SentAt:    now,
			}); err != nil {
				log.Printf("⚠️ Failed to record alert history: %v", err)
			}

			monitoring.RecordEmailSent()
			sent++
		}
	}
	return sent
}

// deliverSummary sends the whole-portfolio digest, cooldown-gated like
// any other alert so cron cycles inside the window stay quiet.
func (s *Service) deliverSummary(results []*analysis.EvaluationResult) int {
	cooldown := time.Duration(s.cfg.Email.CooldownMinutes) * time.Minute
	now := s.now()
	const key = "PORTFOLIO_SUMMARY"

	ok, err := s.store.CanSend(key, cooldown, now)
	if err != nil {
		log.Printf("❌ Cooldown check failed for summary: %v", err)
		return 0
	}
	if !ok {
		return 0
	}

	subject := fmt.Sprintf("📋 Portfolio Summary - %s", now.Format("02-Jan-2006"))
	if err := s.sender.Send(subject, alerting.FormatSummaryEmail(results, now)); err != nil {
		log.Printf("❌ Failed to send summary email: %v", err)
		monitoring.RecordError("email_send")
		return 0
	}
	if err := s.store.MarkSent(key, now); err != nil {
		log.Printf("⚠️ Failed to record summary cooldown: %v", err)
	}
	monitoring.RecordEmailSent()
	return 1
}
