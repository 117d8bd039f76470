package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// CSVColumnMapping defines the column positions for a CSV bar format
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// YahooExportFormat matches the Date,Open,High,Low,Close,Adj Close,Volume
// layout of Yahoo Finance CSV downloads (Adj Close ignored).
var YahooExportFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    6,
	MinColumns:   7,
	DateFormat:   "2006-01-02",
}

// DefaultCSVFormat is a plain Date,Open,High,Low,Close,Volume layout
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02",
}

// CSVProvider implements HistoryProvider over a directory of per-ticker
// CSV files, for offline runs and tests. Files are looked up as
// <dir>/<SYMBOL>_<interval>.csv, then <dir>/<SYMBOL>.csv.
type CSVProvider struct {
	dir    string
	format CSVColumnMapping
}

// NewCSVProvider creates a CSV history provider rooted at dir
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir, format: DefaultCSVFormat}
}

// NewCSVProviderWithFormat creates a CSV provider with a custom format
func NewCSVProviderWithFormat(dir string, format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{dir: dir, format: format}
}

// GetName returns the name of the history provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// FetchHistory loads bars for a symbol from its CSV file
func (p *CSVProvider) FetchHistory(_ context.Context, symbol string, interval Interval, lookback int) ([]types.OHLCV, error) {
	base := strings.TrimSuffix(NormalizeSymbol(symbol), ".NS")

	path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.csv", base, interval))
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(p.dir, base+".csv")
	}

	data, err := p.loadFile(path)
	if err != nil {
		return nil, err
	}
	if lookback > 0 && len(data) > lookback {
		data = data[len(data)-lookback:]
	}
	return data, nil
}

// FetchCurrentPrice returns the latest close from the symbol's file
func (p *CSVProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	data, err := p.FetchHistory(ctx, symbol, IntervalDaily, 0)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("no bars in CSV for %s", symbol)
	}
	return data[len(data)-1].Close, nil
}

func (p *CSVProvider) loadFile(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	format := p.format
	var data []types.OHLCV

	lineNum := 1 // header already consumed
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
			continue
		}

		timestamp, err := time.Parse(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			log.Printf("⚠️ Invalid timestamp '%s' at line %d, skipping: %v", record[format.TimestampCol], lineNum, err)
			continue
		}

		open, err := strconv.ParseFloat(record[format.OpenCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid open price '%s' at line %d, skipping: %v", record[format.OpenCol], lineNum, err)
			continue
		}
		high, err := strconv.ParseFloat(record[format.HighCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid high price '%s' at line %d, skipping: %v", record[format.HighCol], lineNum, err)
			continue
		}
		low, err := strconv.ParseFloat(record[format.LowCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid low price '%s' at line %d, skipping: %v", record[format.LowCol], lineNum, err)
			continue
		}
		closePrice, err := strconv.ParseFloat(record[format.CloseCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid close price '%s' at line %d, skipping: %v", record[format.CloseCol], lineNum, err)
			continue
		}
		volume, err := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid volume '%s' at line %d, skipping: %v", record[format.VolumeCol], lineNum, err)
			continue
		}

		if open <= 0 || high <= 0 || low <= 0 || closePrice <= 0 {
			log.Printf("⚠️ Invalid price data (negative or zero) at line %d, skipping", lineNum)
			continue
		}
		if high < open || high < closePrice || high < low {
			log.Printf("⚠️ High price is lower than other prices at line %d, skipping", lineNum)
			continue
		}
		if low > open || low > closePrice {
			log.Printf("⚠️ Low price is higher than other prices at line %d, skipping", lineNum)
			continue
		}

		data = append(data, types.OHLCV{
			Timestamp: timestamp,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	return data, nil
}
