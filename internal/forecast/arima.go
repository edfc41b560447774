// Package forecast fits a seasonal ARIMA(1,1,1)(0,1,1)s model to monthly
// revenue by conditional least squares and projects a future horizon.
package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// Season is the seasonal period for monthly revenue.
const Season = 12

// Model is a fitted seasonal ARIMA(1,1,1)(0,1,1)s model.
type Model struct {
	Season        int
	Phi           float64 // non-seasonal AR(1)
	Theta         float64 // non-seasonal MA(1)
	SeasonalTheta float64 // seasonal MA(1)

	series []float64
}

// Fit estimates the model on a revenue series. The series must cover at
// least two full seasons plus three points so both differences and the
// CSS recursion have usable history.
func Fit(series []float64, season int) (*Model, error) {
	minLen := 2*season + 3
	if len(series) < minLen {
		return nil, fmt.Errorf("forecast: need at least %d monthly points, have %d", minLen, len(series))
	}

	w := doubleDifference(series, season)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return css(w, season, x[0], x[1], x[2])
		},
	}

	result, err := optimize.Minimize(problem, []float64{0.1, 0.1, 0.1}, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("forecast: fit did not converge: %w", err)
	}

	return &Model{
		Season:        season,
		Phi:           result.X[0],
		Theta:         result.X[1],
		SeasonalTheta: result.X[2],
		series:        append([]float64(nil), series...),
	}, nil
}

// Forecast projects horizon future values past the end of the fitted
// series.
func (m *Model) Forecast(horizon int) []float64 {
	if horizon <= 0 {
		return nil
	}
	s := m.Season
	d1 := difference(m.series)
	w := seasonalDifference(d1, s)
	e := residuals(w, s, m.Phi, m.Theta, m.SeasonalTheta)

	// Extend the doubly-differenced series; future shocks are zero.
	for j := 0; j < horizon; j++ {
		t := len(w)
		pred := 0.0
		if t >= 1 {
			pred += m.Phi*w[t-1] + m.Theta*e[t-1]
		}
		if t >= s {
			pred += m.SeasonalTheta * e[t-s]
		}
		if t >= s+1 {
			pred += m.Theta * m.SeasonalTheta * e[t-s-1]
		}
		w = append(w, pred)
		e = append(e, 0)
	}

	// Invert the seasonal difference, then the first difference.
	n := len(d1)
	for t := n; t < n+horizon; t++ {
		d1 = append(d1, w[t-s]+d1[t-s])
	}
	y := append([]float64(nil), m.series...)
	for j := 0; j < horizon; j++ {
		y = append(y, y[len(y)-1]+d1[len(m.series)-1+j])
	}
	return y[len(m.series):]
}

// Monthly fits the model to a monthly revenue table and returns the
// projected months with continuing "2006-01" keys.
func Monthly(points []retail.MonthPoint, horizon int) ([]retail.MonthPoint, error) {
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Revenue
	}
	model, err := Fit(series, Season)
	if err != nil {
		return nil, err
	}

	last, err := time.Parse("2006-01", points[len(points)-1].YearMonth)
	if err != nil {
		return nil, fmt.Errorf("forecast: bad month key %q: %w", points[len(points)-1].YearMonth, err)
	}

	values := model.Forecast(horizon)
	out := make([]retail.MonthPoint, horizon)
	for j, v := range values {
		out[j] = retail.MonthPoint{
			YearMonth: last.AddDate(0, j+1, 0).Format("2006-01"),
			Revenue:   v,
		}
	}
	return out, nil
}

// css is the conditional sum of squares, with a hard penalty outside the
// stationarity/invertibility region to keep the optimizer inside it.
func css(w []float64, season int, phi, theta, seasonalTheta float64) float64 {
	const bound = 0.999
	excess := 0.0
	for _, p := range []float64{phi, theta, seasonalTheta} {
		if a := math.Abs(p); a >= bound {
			excess += a - bound
		}
	}
	if excess > 0 {
		return 1e12 * (1 + excess)
	}

	sum := 0.0
	for _, r := range residuals(w, season, phi, theta, seasonalTheta) {
		sum += r * r
	}
	return sum
}

// residuals runs the CSS recursion
// e_t = w_t - phi*w_{t-1} - theta*e_{t-1} - Theta*e_{t-s} - theta*Theta*e_{t-s-1}
// with pre-sample terms set to zero.
func residuals(w []float64, season int, phi, theta, seasonalTheta float64) []float64 {
	e := make([]float64, len(w))
	for t := range w {
		pred := 0.0
		if t >= 1 {
			pred += phi*w[t-1] + theta*e[t-1]
		}
		if t >= season {
			pred += seasonalTheta * e[t-season]
		}
		if t >= season+1 {
			pred += theta * seasonalTheta * e[t-season-1]
		}
		e[t] = w[t] - pred
	}
	return e
}

func difference(y []float64) []float64 {
	d := make([]float64, len(y)-1)
	for i := range d {
		d[i] = y[i+1] - y[i]
	}
	return d
}

func seasonalDifference(y []float64, season int) []float64 {
	d := make([]float64, len(y)-season)
	for i := range d {
		d[i] = y[i+season] - y[i]
	}
	return d
}

func doubleDifference(y []float64, season int) []float64 {
	return seasonalDifference(difference(y), season)
}
