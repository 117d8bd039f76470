package indicators

import (
	"testing"
)

func TestRSI_Calculate(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	value, err := rsi.Calculate(prices)
	if err != nil {
		t.Fatalf("RSI calculation failed: %v", err)
	}

	if value < 0 || value > 100 {
		t.Errorf("RSI value out of range: %f", value)
	}

	// Strictly rising prices have no losses, so RSI pegs at 100
	if value != 100 {
		t.Errorf("expected RSI 100 for monotonic gains, got %f", value)
	}
}

func TestRSI_Calculate_Declining(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100.0 - float64(i)
	}

	value, err := rsi.Calculate(prices)
	if err != nil {
		t.Fatalf("RSI calculation failed: %v", err)
	}

	if value != 0 {
		t.Errorf("expected RSI 0 for monotonic losses, got %f", value)
	}
}

func TestRSI_Calculate_InsufficientData(t *testing.T) {
	rsi := NewRSI(14)

	if _, err := rsi.Calculate([]float64{100, 101, 102}); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestRSI_Calculate_Mixed(t *testing.T) {
	rsi := NewRSI(14)

	// Alternating gains and losses of equal size -> RS = 1 -> RSI = 50
	prices := make([]float64, 21)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 0 {
			prices[i] = prices[i-1] - 1
		} else {
			prices[i] = prices[i-1] + 1
		}
	}

	value, err := rsi.Calculate(prices)
	if err != nil {
		t.Fatalf("RSI calculation failed: %v", err)
	}

	if value < 49.9 || value > 50.1 {
		t.Errorf("expected RSI near 50 for balanced moves, got %f", value)
	}
}
