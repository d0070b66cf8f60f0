package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Errorf("expected 100 data points, got %d", len(data))
	}

	for i := 1; i < len(data); i++ {
		if !data[i].Time.After(data[i-1].Time) {
			t.Errorf("data not in chronological order at index %d", i)
		}

		if data[i].Time.Sub(data[i-1].Time) != config.Interval {
			t.Errorf("unexpected interval at index %d", i)
		}
	}

	for i, d := range data {
		if d.Symbol != config.Symbol {
			t.Errorf("expected symbol %s at index %d, got %s", config.Symbol, i, d.Symbol)
		}

		if d.Open <= 0 || d.High <= 0 || d.Low <= 0 || d.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f", i, d.Open, d.High, d.Low, d.Close)
		}

		if d.High < d.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, d.High, d.Low)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 10

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	for i := range data1 {
		if data1[i].Close != data2[i].Close {
			t.Errorf("data not reproducible at index %d: got %f and %f", i, data1[i].Close, data2[i].Close)
		}
	}
}

func TestDataGenerator_DifferentSeeds(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(123).Generate(config)

	sameCount := 0

	for i := range data1 {
		if data1[i].Close == data2[i].Close {
			sameCount++
		}
	}

	if sameCount == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestDataGenerator_RegimesReverseTrend(t *testing.T) {
	config := DefaultConfig()
	config.Volatility = 0
	config.RegimeLength = 5
	config.Count = 10

	data := NewDataGenerator(1).Generate(config)

	if !(data[4].Close > data[0].Close) {
		t.Errorf("expected rising prices in the first regime, got %f then %f", data[0].Close, data[4].Close)
	}

	if !(data[9].Close < data[5].Close) {
		t.Errorf("expected falling prices in the second regime, got %f then %f", data[5].Close, data[9].Close)
	}
}

func TestDataGenerator_GenerateSeries(t *testing.T) {
	config := DefaultConfig()
	series := NewDataGenerator(7).GenerateSeries(config)

	if series.Len() != config.Count {
		t.Errorf("expected %d points, got %d", config.Count, series.Len())
	}

	if series.Symbol != config.Symbol {
		t.Errorf("expected symbol %s, got %s", config.Symbol, series.Symbol)
	}
}

func TestGenerateMultiSymbol(t *testing.T) {
	symbols := []string{"AAPL", "GOOG", "MSFT"}
	config := DefaultConfig()
	config.Count = 100

	data := NewDataGenerator(42).GenerateMultiSymbol(symbols, config)

	if len(data) != len(symbols)*config.Count {
		t.Errorf("expected %d data points, got %d", len(symbols)*config.Count, len(data))
	}

	symbolCounts := make(map[string]int)
	for _, d := range data {
		symbolCounts[d.Symbol]++
	}

	for _, symbol := range symbols {
		if symbolCounts[symbol] != config.Count {
			t.Errorf("expected %d data points for %s, got %d", config.Count, symbol, symbolCounts[symbol])
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 252 {
		t.Errorf("expected default count 252, got %d", config.Count)
	}

	if config.Interval != 24*time.Hour {
		t.Errorf("expected daily interval, got %v", config.Interval)
	}

	if config.InitialPrice != 100.0 {
		t.Errorf("expected default initial price 100.0, got %f", config.InitialPrice)
	}
}
