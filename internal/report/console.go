package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/analysis"
)

// ConsoleReporter renders scan results as terminal tables.
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterWithWriter is used by tests to capture output.
func NewConsoleReporterWithWriter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func statusEmoji(status string) string {
	switch status {
	case analysis.StatusCritical:
		return "🚨"
	case analysis.StatusWarning:
		return "⚠️"
	case analysis.StatusSuccess:
		return "🎯"
	case analysis.StatusOpportunity:
		return "🚀"
	case analysis.StatusGood:
		return "📈"
	default:
		return "✅"
	}
}

// PrintSummary renders one row per evaluated position.
func (r *ConsoleReporter) PrintSummary(results []*analysis.EvaluationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("PORTFOLIO SCAN")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Ticker", "Side", "Price", "P&L %", "Momentum", "SL Risk", "Status", "Action"})

	for _, res := range results {
		t.AppendRow(table.Row{
			res.Position.Ticker,
			res.Position.Side,
			fmt.Sprintf("%.2f", res.CurrentPrice),
			fmt.Sprintf("%+.2f%%", res.PnLPercent),
			fmt.Sprintf("%d %s", res.Momentum.Score, res.Momentum.Trend),
			res.SLRisk.Score,
			fmt.Sprintf("%s %s", statusEmoji(res.OverallStatus), res.OverallStatus),
			res.OverallAction,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintDetail renders the full breakdown for one position, used when a
// position has active alerts.
func (r *ConsoleReporter) PrintDetail(res *analysis.EvaluationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("%s %s", statusEmoji(res.OverallStatus), res.Position.Ticker))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"💰 Entry", fmt.Sprintf("%.2f", res.Position.EntryPrice)},
		{"📊 Current", fmt.Sprintf("%.2f", res.CurrentPrice)},
		{"💵 P&L", fmt.Sprintf("%+.2f%% (%+.2f)", res.PnLPercent, res.PnLAmount)},
		{"🛑 Stop Loss", fmt.Sprintf("%.2f", res.Position.StopLoss)},
		{"🎯 Targets", fmt.Sprintf("%.2f / %.2f", res.Position.Target1, res.Position.Target2)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"📈 Momentum", fmt.Sprintf("%d (%s)", res.Momentum.Score, res.Momentum.Trend)},
		{"📏 RSI", fmt.Sprintf("%.1f", res.RSI)},
		{"📊 MACD", res.MACDSignal},
		{"🔊 Volume", fmt.Sprintf("%s (%.2fx)", res.Volume.Signal, res.Volume.Ratio)},
		{"⚠️ SL Risk", fmt.Sprintf("%d - %s", res.SLRisk.Score, res.SLRisk.Recommendation)},
	})

	if res.Upside != nil {
		t.AppendRow(table.Row{"🚀 Upside", fmt.Sprintf("%d - %s", res.Upside.Score, res.Upside.Action)})
	}
	if res.Dynamic.ShouldTrail {
		t.AppendRow(table.Row{"📈 Trail Stop", fmt.Sprintf("%.2f", res.Dynamic.TrailStop)})
	}
	if res.Alignment != nil {
		t.AppendRow(table.Row{"⏱️ Alignment", fmt.Sprintf("%d - %s", res.Alignment.Score, res.Alignment.Recommendation)})
	}

	if len(res.Alerts) > 0 {
		t.AppendSeparator()
		for _, alert := range res.Alerts {
			t.AppendRow(table.Row{fmt.Sprintf("🔔 %s", alert.Priority), alert.Message})
		}
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 14, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 60, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintFailures lists tickers whose evaluation failed this cycle.
func (r *ConsoleReporter) PrintFailures(failures map[string]error) {
	if len(failures) == 0 {
		return
	}
	for ticker, err := range failures {
		fmt.Fprintf(r.out, "❌ %s: %v\n", ticker, err)
	}
	fmt.Fprintln(r.out)
}
