package portfolio

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// DefaultSheetName is the workbook sheet positions are read from
const DefaultSheetName = "Portfolio"

// Loader reads position specs from an Excel workbook. Expected headers
// (case-insensitive): Ticker, Position, Entry_Price, Quantity,
// Stop_Loss, Target_1, Target_2, Status. Quantity and Target_2 are
// optional; rows not marked ACTIVE are skipped.
type Loader struct {
	path  string
	sheet string
}

// NewLoader creates a loader for the given workbook path
func NewLoader(path string) *Loader {
	return &Loader{path: path, sheet: DefaultSheetName}
}

// NewLoaderWithSheet creates a loader reading a custom sheet
func NewLoaderWithSheet(path, sheet string) *Loader {
	return &Loader{path: path, sheet: sheet}
}

// Load reads all ACTIVE positions from the workbook. Malformed rows
// are logged and skipped rather than failing the whole portfolio.
func (l *Loader) Load() ([]types.PositionSpec, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open portfolio %s: %w", l.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", l.sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no position rows in sheet %s", l.sheet)
	}

	columns := indexHeaders(rows[0])
	for _, required := range []string{"ticker", "position", "entry_price", "stop_loss", "target_1"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("sheet %s missing required column %q", l.sheet, required)
		}
	}

	var positions []types.PositionSpec
	for i, row := range rows[1:] {
		rowNum := i + 2

		if statusCol, ok := columns["status"]; ok {
			if !strings.EqualFold(cell(row, statusCol), "ACTIVE") {
				continue
			}
		}

		pos, err := parseRow(row, columns)
		if err != nil {
			log.Printf("⚠️ Skipping portfolio row %d: %v", rowNum, err)
			continue
		}
		positions = append(positions, pos)
	}

	log.Printf("📋 Loaded %d active positions from %s", len(positions), l.path)
	return positions, nil
}

func parseRow(row []string, columns map[string]int) (types.PositionSpec, error) {
	var pos types.PositionSpec

	pos.Ticker = strings.ToUpper(strings.TrimSpace(cell(row, columns["ticker"])))
	if pos.Ticker == "" {
		return pos, fmt.Errorf("empty ticker")
	}

	switch strings.ToUpper(strings.TrimSpace(cell(row, columns["position"]))) {
	case "LONG":
		pos.Side = types.SideLong
	case "SHORT":
		pos.Side = types.SideShort
	default:
		return pos, fmt.Errorf("invalid position side %q", cell(row, columns["position"]))
	}

	var err error
	if pos.EntryPrice, err = parsePrice(cell(row, columns["entry_price"]), "entry price"); err != nil {
		return pos, err
	}
	if pos.StopLoss, err = parsePrice(cell(row, columns["stop_loss"]), "stop loss"); err != nil {
		return pos, err
	}
	if pos.Target1, err = parsePrice(cell(row, columns["target_1"]), "target 1"); err != nil {
		return pos, err
	}

	pos.Quantity = 1
	if col, ok := columns["quantity"]; ok {
		if raw := strings.TrimSpace(cell(row, col)); raw != "" {
			qty, err := strconv.ParseFloat(raw, 64)
			if err != nil || qty <= 0 {
				return pos, fmt.Errorf("invalid quantity %q", raw)
			}
			pos.Quantity = int(qty)
		}
	}

	pos.Target2 = pos.Target1 * 1.1
	if pos.Side == types.SideShort {
		pos.Target2 = pos.Target1 * 0.9
	}
	if col, ok := columns["target_2"]; ok {
		if raw := strings.TrimSpace(cell(row, col)); raw != "" {
			if pos.Target2, err = parsePrice(raw, "target 2"); err != nil {
				return pos, err
			}
		}
	}

	return pos, nil
}

func parsePrice(raw, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", field, v)
	}
	return v, nil
}

func indexHeaders(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// WriteSample creates a starter workbook with example positions, used
// on first run when no portfolio file exists yet.
func WriteSample(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(DefaultSheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Ticker", "Position", "Entry_Price", "Quantity", "Stop_Loss", "Target_1", "Target_2", "Status"},
		{"RELIANCE", "LONG", 1550.00, 10, 1500.00, 1650.00, 1750.00, "ACTIVE"},
		{"TCS", "LONG", 3280.00, 5, 3200.00, 3400.00, 3500.00, "ACTIVE"},
		{"INFY", "SHORT", 1650.00, 8, 1720.00, 1550.00, 1450.00, "ACTIVE"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheetName, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save sample portfolio: %w", err)
	}
	log.Printf("📝 Created sample portfolio at %s", path)
	return nil
}
