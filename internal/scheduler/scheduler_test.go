package scheduler

import (
	"testing"
	"time"
)

func istTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, IST)
}

func TestInMarketHours(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"monday mid session", istTime(2026, 3, 2, 11, 0), true},
		{"open exactly", istTime(2026, 3, 2, 9, 15), true},
		{"close exactly", istTime(2026, 3, 2, 15, 30), true},
		{"before open", istTime(2026, 3, 2, 9, 14), false},
		{"after close", istTime(2026, 3, 2, 15, 31), false},
		{"saturday", istTime(2026, 3, 7, 11, 0), false},
		{"sunday", istTime(2026, 3, 8, 11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InMarketHours(tt.t); got != tt.want {
				t.Errorf("InMarketHours(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestInMarketHoursConvertsTimezone(t *testing.T) {
	// 04:45 UTC on a Monday is 10:15 IST, inside the session.
	utc := time.Date(2026, 3, 2, 4, 45, 0, 0, time.UTC)
	if !InMarketHours(utc) {
		t.Error("expected 04:45 UTC Monday to be in market hours")
	}

	// 11:00 UTC is 16:30 IST, after close.
	if InMarketHours(time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)) {
		t.Error("expected 11:00 UTC to be outside market hours")
	}
}

func TestRegisterRejectsBadExpression(t *testing.T) {
	s := New(false)
	if err := s.Register("not a cron", func() {}); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestRegisterAcceptsSixFieldExpression(t *testing.T) {
	s := New(false)
	if err := s.Register("0 */15 9-15 * * 1-5", func() {}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMarketHoursGateSkipsScan(t *testing.T) {
	s := New(true)
	s.now = func() time.Time { return istTime(2026, 3, 7, 11, 0) } // Saturday

	ran := false
	if err := s.Register("* * * * * *", func() { ran = true }); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Invoke the wrapped job the way cron would.
	entries := s.cron.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entries[0].Job.Run()

	if ran {
		t.Error("scan should be skipped outside market hours")
	}

	s.now = func() time.Time { return istTime(2026, 3, 2, 11, 0) } // Monday
	entries[0].Job.Run()
	if !ran {
		t.Error("scan should run during market hours")
	}
}
