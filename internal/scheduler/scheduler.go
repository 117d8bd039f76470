package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// IST is the exchange timezone. NSE and BSE trade 09:15 to 15:30 IST
// on weekdays.
var IST = time.FixedZone("IST", 5*3600+1800)

const (
	marketOpenMinutes  = 9*60 + 15
	marketCloseMinutes = 15*60 + 30
)

// InMarketHours reports whether t falls inside the Indian equity
// trading session.
func InMarketHours(t time.Time) bool {
	ist := t.In(IST)
	switch ist.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := ist.Hour()*60 + ist.Minute()
	return minutes >= marketOpenMinutes && minutes <= marketCloseMinutes
}

// Scheduler runs the portfolio scan on a cron expression, optionally
// gated to market hours.
type Scheduler struct {
	cron            *cron.Cron
	marketHoursOnly bool
	now             func() time.Time
}

func New(marketHoursOnly bool) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithSeconds()),
		marketHoursOnly: marketHoursOnly,
		now:             time.Now,
	}
}

// Register wires the scan function to a 6-field cron expression
// (seconds included).
func (s *Scheduler) Register(cronExpr string, scan func()) error {
	if _, err := s.cron.AddFunc(cronExpr, func() {
		if s.marketHoursOnly && !InMarketHours(s.now()) {
			log.Println("💤 Outside market hours, skipping scan")
			return
		}
		scan()
	}); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("⏰ Scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Scheduler stopped")
}
