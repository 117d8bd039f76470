package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/analysis"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Indian market timestamps. All alert emails are stamped in IST.
var istLocation = time.FixedZone("IST", 5*3600+1800)

const (
	colorGain     = "#28a745"
	colorLoss     = "#dc3545"
	colorCritical = "#dc3545"
	colorHigh     = "#fd7e14"
	colorMedium   = "#ffc107"
	colorDefault  = "#6c757d"
)

func priorityColor(p analysis.Priority) string {
	switch p {
	case analysis.PriorityCritical:
		return colorCritical
	case analysis.PriorityHigh:
		return colorHigh
	case analysis.PriorityMedium:
		return colorMedium
	default:
		return colorDefault
	}
}

func pnlColor(pnl float64) string {
	if pnl >= 0 {
		return colorGain
	}
	return colorLoss
}

// FormatAlertSubject builds the email subject line for one alert.
func FormatAlertSubject(ticker string, alert analysis.Alert) string {
	return fmt.Sprintf("%s %s - %s", alert.Type, ticker, alert.Action)
}

// FormatAlertEmail renders a single position alert as an HTML email
// body with the position snapshot and the recommended action.
func FormatAlertEmail(pos types.PositionSpec, result *analysis.EvaluationResult, alert analysis.Alert, now time.Time) string {
	pnl := pos.PnLPercent(result.CurrentPrice)

	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	fmt.Fprintf(&b, "<div style=\"border-left: 5px solid %s; padding: 10px 15px; background: #f8f9fa;\">",
		priorityColor(alert.Priority))
	fmt.Fprintf(&b, "<h2 style=\"margin: 0; color: %s;\">%s</h2>", priorityColor(alert.Priority), alert.Message)
	fmt.Fprintf(&b, "<p style=\"margin: 5px 0 0;\"><b>Action: %s</b></p>", alert.Action)
	b.WriteString("</div>")

	b.WriteString("<table style=\"border-collapse: collapse; margin-top: 15px;\">")
	writeRow := func(label, value string) {
		fmt.Fprintf(&b, "<tr><td style=\"padding: 4px 12px 4px 0; color: #6c757d;\">%s</td><td style=\"padding: 4px 0;\">%s</td></tr>", label, value)
	}
	writeRow("Ticker", pos.Ticker)
	writeRow("Side", string(pos.Side))
	writeRow("Entry Price", fmt.Sprintf("%.2f", pos.EntryPrice))
	writeRow("Current Price", fmt.Sprintf("%.2f", result.CurrentPrice))
	writeRow("P&L", fmt.Sprintf("<span style=\"color: %s;\"><b>%+.2f%%</b></span>", pnlColor(pnl), pnl))
	writeRow("Stop Loss", fmt.Sprintf("%.2f", pos.StopLoss))
	writeRow("Targets", fmt.Sprintf("%.2f / %.2f", pos.Target1, pos.Target2))
	writeRow("Momentum", fmt.Sprintf("%d (%s)", result.Momentum.Score, result.Momentum.Trend))
	writeRow("SL Risk", fmt.Sprintf("%d", result.SLRisk.Score))
	if result.Upside != nil {
		writeRow("Upside", fmt.Sprintf("%d - %s", result.Upside.Score, result.Upside.Action))
	}
	if result.Dynamic.ShouldTrail {
		writeRow("Trail Stop", fmt.Sprintf("%.2f", result.Dynamic.TrailStop))
	}
	b.WriteString("</table>")

	if len(result.SLRisk.Reasons) > 0 {
		b.WriteString("<p style=\"margin-top: 15px;\"><b>Risk factors:</b></p><ul>")
		for _, reason := range result.SLRisk.Reasons {
			fmt.Fprintf(&b, "<li>%s</li>", reason)
		}
		b.WriteString("</ul>")
	}

	fmt.Fprintf(&b, "<p style=\"color: #6c757d; font-size: 12px;\">Generated %s IST</p>",
		now.In(istLocation).Format("02-Jan-2006 15:04"))
	b.WriteString("</body></html>")
	return b.String()
}

// FormatSummaryEmail renders a portfolio-wide digest, one row per
// position, used for the end-of-scan summary mail.
func FormatSummaryEmail(results []*analysis.EvaluationResult, now time.Time) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	b.WriteString("<h2>Portfolio Summary</h2>")
	b.WriteString("<table style=\"border-collapse: collapse; width: 100%;\">")
	b.WriteString("<tr style=\"background: #343a40; color: white;\">")
	for _, h := range []string{"Ticker", "Side", "Price", "P&L %", "Status", "Action"} {
		fmt.Fprintf(&b, "<th style=\"padding: 6px 10px; text-align: left;\">%s</th>", h)
	}
	b.WriteString("</tr>")

	for _, r := range results {
		pnl := r.Position.PnLPercent(r.CurrentPrice)
		fmt.Fprintf(&b, "<tr style=\"border-bottom: 1px solid #dee2e6;\">")
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px;\"><b>%s</b></td>", r.Position.Ticker)
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px;\">%s</td>", r.Position.Side)
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px;\">%.2f</td>", r.CurrentPrice)
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px; color: %s;\">%+.2f%%</td>", pnlColor(pnl), pnl)
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px;\">%s</td>", r.OverallStatus)
		fmt.Fprintf(&b, "<td style=\"padding: 6px 10px;\">%s</td>", r.OverallAction)
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p style=\"color: #6c757d; font-size: 12px;\">Generated %s IST</p>",
		now.In(istLocation).Format("02-Jan-2006 15:04"))
	b.WriteString("</body></html>")
	return b.String()
}
