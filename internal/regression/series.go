package regression

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Prediction pairs the observed price of a bar with the model's fitted value.
// Predicted is None on bars where any regressor is undefined.
type Prediction struct {
	Time      time.Time
	Actual    float64
	Predicted optional.Option[float64]
}

// Result is a model fitted on a price series together with its in-sample predictions.
type Result struct {
	Symbol      string
	Model       *Model
	Predictions []Prediction
}

// FitSeries regresses the prices on the given indicator series. Bars where any regressor is
// undefined are dropped from the fit but still get a Prediction row.
func FitSeries(series types.PriceSeries, regressors ...types.IndicatorSeries) (*Result, error) {
	times := series.Times()
	names := make([]string, len(regressors))

	for i, r := range regressors {
		if err := r.CheckAligned(times); err != nil {
			return nil, err
		}

		names[i] = r.Name
	}

	prices := series.Prices()

	var (
		y []float64
		x [][]float64
	)

	rows := make([][]float64, len(prices))

	for i, price := range prices {
		row, ok := regressorRow(regressors, i)
		if !ok {
			continue
		}

		rows[i] = row
		y = append(y, price)
		x = append(x, row)
	}

	model, err := Fit(y, x, names)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, len(prices))

	for i, price := range prices {
		predictions[i] = Prediction{
			Time:      times[i],
			Actual:    price,
			Predicted: optional.None[float64](),
		}

		if rows[i] == nil {
			continue
		}

		predicted, err := model.Predict(rows[i])
		if err != nil {
			return nil, err
		}

		predictions[i].Predicted = optional.Some(predicted)
	}

	return &Result{
		Symbol:      series.Symbol,
		Model:       model,
		Predictions: predictions,
	}, nil
}

func regressorRow(regressors []types.IndicatorSeries, i int) ([]float64, bool) {
	row := make([]float64, len(regressors))

	for j, r := range regressors {
		v := r.Values[i]
		if v.IsNone() {
			return nil, false
		}

		row[j] = v.Unwrap()
	}

	return row, true
}
