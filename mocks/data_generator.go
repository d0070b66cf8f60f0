package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DataGenerator generates synthetic daily bars for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration between bars
	Interval time.Duration
	Count    int
	// InitialPrice is the first open
	InitialPrice float64
	// Volatility is the standard deviation of the per-bar return (0.01 = 1%)
	Volatility float64
	// Drift is the mean per-bar return while the trend is up; it is negated while the trend is down
	Drift float64
	// RegimeLength flips the sign of Drift every RegimeLength bars so the averages cross. 0 never flips.
	RegimeLength int
	VolumeBase   float64
}

// DefaultConfig returns one year of trading days with a trend that reverses every quarter.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartTime:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        252,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Drift:        0.003,
		RegimeLength: 63,
		VolumeBase:   1_000_000,
	}
}

// Generate creates bars following a geometric Brownian motion with regime-switching drift.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := 0; i < config.Count; i++ {
		drift := config.Drift
		if config.RegimeLength > 0 && (i/config.RegimeLength)%2 == 1 {
			drift = -drift
		}

		open := price
		close := open * math.Exp(drift+config.Volatility*g.normal())

		high := math.Max(open, close) * (1 + math.Abs(g.normal())*config.Volatility/2)
		low := math.Min(open, close) * (1 - math.Abs(g.normal())*config.Volatility/2)

		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		data[i] = types.MarketData{
			Symbol: config.Symbol,
			Time:   current,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(config.VolumeBase*(0.5+g.rng.Float64()), 0),
		}

		price = close
		current = current.Add(config.Interval)
	}

	return data
}

// GenerateSeries returns the close prices of Generate as a price series.
func (g *DataGenerator) GenerateSeries(config GeneratorConfig) types.PriceSeries {
	series, err := types.NewPriceSeriesFromMarketData(config.Symbol, g.Generate(config))
	if err != nil {
		// Generate always produces strictly increasing timestamps for a positive interval
		panic(err)
	}

	return series
}

// GenerateMultiSymbol generates data for multiple symbols, one after the other.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.MarketData {
	var allData []types.MarketData

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)

		allData = append(allData, g.Generate(config)...)
	}

	return allData
}

// normal draws a standard normal sample with the Box-Muller transform.
func (g *DataGenerator) normal() float64 {
	u1 := 1 - g.rng.Float64()
	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
