package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-crossover/internal/regression"
	"github.com/shopspring/decimal"
)

// predictionRow is one line of the predictions CSV. Predicted is empty where a regressor is undefined.
type predictionRow struct {
	Time      string `csv:"time"`
	Actual    string `csv:"actual"`
	Predicted string `csv:"predicted"`
}

func renderModel(result *regression.Result) string {
	model := result.Model

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "coef", "std err", "t")

	for i, name := range model.Names {
		t.Row(
			name,
			fmt.Sprintf("%.4f", model.Coefficients[i]),
			fmt.Sprintf("%.4f", model.StdErrors[i]),
			fmt.Sprintf("%.3f", model.TValues[i]),
		)
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("OLS regression of %s close price", result.Symbol)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Observations: %d  R-squared: %.4f  Adj. R-squared: %.4f\n", model.Observations, model.RSquared, model.AdjRSquared))
	b.WriteString(t.String())

	return b.String()
}

func writePredictions(path string, result *regression.Result) error {
	rows := make([]*predictionRow, len(result.Predictions))

	for i, p := range result.Predictions {
		rows[i] = &predictionRow{
			Time:   p.Time.Format(time.RFC3339),
			Actual: decimal.NewFromFloat(p.Actual).StringFixed(4),
		}

		if p.Predicted.IsSome() {
			rows[i].Predicted = decimal.NewFromFloat(p.Predicted.Unwrap()).StringFixed(4)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
