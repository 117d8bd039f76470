package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/analysis"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

func sampleResult(ticker, status, action string) *analysis.EvaluationResult {
	return &analysis.EvaluationResult{
		Position: types.PositionSpec{
			Ticker:     ticker,
			Side:       types.SideLong,
			EntryPrice: 100,
			StopLoss:   95,
			Target1:    110,
			Target2:    120,
		},
		CurrentPrice: 104,
		PnLPercent:   4,
		PnLAmount:    4,
		RSI:          58.2,
		MACDSignal:   analysis.TrendBullish,
		Momentum:     analysis.MomentumResult{Score: 65, Trend: analysis.TrendBullish},
		Volume:       analysis.VolumeReport{Signal: analysis.VolumeNeutral, Ratio: 1.02},
		SLRisk: analysis.SLRiskResult{
			ScoreResult: analysis.ScoreResult{Score: 10, Recommendation: "SAFE - Very low risk"},
		},
		OverallStatus: status,
		OverallAction: action,
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterWithWriter(&buf)

	r.PrintSummary([]*analysis.EvaluationResult{
		sampleResult("RELIANCE", analysis.StatusOK, analysis.ActionHold),
		sampleResult("TCS", analysis.StatusWarning, analysis.ActionWatch),
	})

	out := buf.String()
	for _, want := range []string{"PORTFOLIO SCAN", "RELIANCE", "TCS", "+4.00%", "HOLD", "WATCH"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q", want)
		}
	}
}

func TestPrintDetailIncludesAlerts(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterWithWriter(&buf)

	res := sampleResult("INFY", analysis.StatusCritical, analysis.ActionExit)
	res.Alerts = []analysis.Alert{{
		Priority: analysis.PriorityCritical,
		Type:     "STOP_LOSS",
		Message:  "🚨 STOP LOSS HIT",
		Action:   analysis.ActionExit,
	}}
	res.Upside = &analysis.UpsideResult{
		ScoreResult: analysis.ScoreResult{Score: 72},
		Action:      "Strong upside - New target: 118.00",
	}

	r.PrintDetail(res)

	out := buf.String()
	for _, want := range []string{"INFY", "STOP LOSS HIT", "SAFE - Very low risk", "Strong upside"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q", want)
		}
	}
}

func TestPrintFailures(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterWithWriter(&buf)

	r.PrintFailures(map[string]error{"SUZLON": errors.New("no price data")})

	if !strings.Contains(buf.String(), "SUZLON") {
		t.Error("failure output missing ticker")
	}

	buf.Reset()
	r.PrintFailures(nil)
	if buf.Len() != 0 {
		t.Error("no output expected for empty failures")
	}
}
