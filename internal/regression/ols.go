// Package regression fits ordinary least squares models of a price on its moving averages.
package regression

import (
	"math"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// InterceptName labels the constant term in Model.Names.
const InterceptName = "const"

// Model is a fitted OLS model with an intercept.
// Coefficients, StdErrors and TValues are ordered like Names, intercept first.
type Model struct {
	Names        []string
	Coefficients []float64
	StdErrors    []float64
	TValues      []float64
	RSquared     float64
	AdjRSquared  float64
	// SSR is the residual sum of squares.
	SSR          float64
	Observations int
}

// Intercept returns the constant term.
func (m *Model) Intercept() float64 {
	return m.Coefficients[0]
}

// Coefficient returns the slope of the named regressor.
func (m *Model) Coefficient(name string) (float64, bool) {
	for i, n := range m.Names {
		if n == name {
			return m.Coefficients[i], true
		}
	}

	return 0, false
}

// Predict evaluates the model for one row of regressors.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients)-1 {
		return 0, errors.Newf(errors.ErrCodeMisalignedSeries,
			"model has %d regressors, got %d values", len(m.Coefficients)-1, len(x))
	}

	return m.Coefficients[0] + dot(m.Coefficients[1:], x), nil
}

// Fit regresses y on the columns of x plus an intercept. x[i] holds the regressors of observation i
// and names labels those regressors. R² is 0 when y has no variance.
func Fit(y []float64, x [][]float64, names []string) (*Model, error) {
	n := len(y)
	if n != len(x) {
		return nil, errors.Newf(errors.ErrCodeMisalignedSeries, "%d targets but %d regressor rows", n, len(x))
	}

	k := len(names)
	p := k + 1

	if n <= p {
		return nil, errors.Newf(errors.ErrCodeEmptySeries,
			"need more than %d observations to fit %d parameters, got %d", p, p, n)
	}

	for i, row := range x {
		if len(row) != k {
			return nil, errors.Newf(errors.ErrCodeMisalignedSeries, "row %d has %d regressors, expected %d", i, len(row), k)
		}
	}

	design := make([][]float64, n)
	for i, row := range x {
		design[i] = append([]float64{1}, row...)
	}

	// normal equations: (X'X) b = X'y
	xtx := make([][]float64, p)
	xty := make([]float64, p)

	for a := 0; a < p; a++ {
		xtx[a] = make([]float64, p)

		for b := 0; b < p; b++ {
			for i := 0; i < n; i++ {
				xtx[a][b] += design[i][a] * design[i][b]
			}
		}

		for i := 0; i < n; i++ {
			xty[a] += design[i][a] * y[i]
		}
	}

	coefficients, err := solve(xtx, xty)
	if err != nil {
		return nil, err
	}

	inverse, err := invert(xtx)
	if err != nil {
		return nil, err
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}

	mean /= float64(n)

	var ssr, sst float64

	for i := 0; i < n; i++ {
		residual := y[i] - dot(coefficients, design[i])
		ssr += residual * residual
		sst += (y[i] - mean) * (y[i] - mean)
	}

	model := &Model{
		Names:        append([]string{InterceptName}, names...),
		Coefficients: coefficients,
		StdErrors:    make([]float64, p),
		TValues:      make([]float64, p),
		SSR:          ssr,
		Observations: n,
	}

	if sst > 0 {
		model.RSquared = 1 - ssr/sst
		model.AdjRSquared = 1 - (1-model.RSquared)*float64(n-1)/float64(n-p)
	}

	variance := ssr / float64(n-p)

	for j := 0; j < p; j++ {
		model.StdErrors[j] = math.Sqrt(variance * inverse[j][j])
		if model.StdErrors[j] > 0 {
			model.TValues[j] = coefficients[j] / model.StdErrors[j]
		}
	}

	return model, nil
}

// solve solves a·x = b by Gaussian elimination with partial pivoting. a and b are left untouched.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)

	m := make([][]float64, n)
	scale := 0.0

	for i := range a {
		m[i] = append(append([]float64{}, a[i]...), b[i])

		for _, v := range a[i] {
			scale = math.Max(scale, math.Abs(v))
		}
	}

	tolerance := scale * 1e-12

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}

		if math.Abs(m[pivot][col]) <= tolerance {
			return nil, errors.New(errors.ErrCodeSingularMatrix, "regressors are collinear")
		}

		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[row][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)

	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for c := row + 1; c < n; c++ {
			sum -= m[row][c] * x[c]
		}

		x[row] = sum / m[row][row]
	}

	return x, nil
}

// invert inverts a column by column.
func invert(a [][]float64) ([][]float64, error) {
	n := len(a)

	inverse := make([][]float64, n)
	for i := range inverse {
		inverse[i] = make([]float64, n)
	}

	for col := 0; col < n; col++ {
		unit := make([]float64, n)
		unit[col] = 1

		column, err := solve(a, unit)
		if err != nil {
			return nil, err
		}

		for row := 0; row < n; row++ {
			inverse[row][col] = column[row]
		}
	}

	return inverse, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}
