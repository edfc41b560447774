package forecast

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// seasonalSeries builds a deterministic trend-plus-seasonality revenue
// series starting at 2009-01.
func seasonalSeries(months int) []retail.MonthPoint {
	seasonal := []float64{-40, -30, -10, 0, 10, 25, 40, 35, 20, 5, -15, -40}
	points := make([]retail.MonthPoint, months)
	year, month := 2009, 1
	for t := 0; t < months; t++ {
		points[t] = retail.MonthPoint{
			YearMonth: monthKey(year, month),
			Revenue:   1000 + 12.5*float64(t) + seasonal[t%12],
		}
		month++
		if month > 12 {
			month, year = 1, year+1
		}
	}
	return points
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func TestFit_ShortHistory(t *testing.T) {
	series := make([]float64, 10)
	_, err := Fit(series, Season)
	if err == nil {
		t.Fatal("expected error for short history, got nil")
	}
}

func TestMonthly_ProjectsTrendAndSeason(t *testing.T) {
	history := seasonalSeries(36)
	projected, err := Monthly(history, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projected) != 6 {
		t.Fatalf("got %d projected months, want 6", len(projected))
	}
	if projected[0].YearMonth != "2012-01" {
		t.Fatalf("first forecast month: got %q, want 2012-01", projected[0].YearMonth)
	}

	// The generator is exactly linear trend + fixed seasonality, which
	// double differencing removes entirely, so the projection must
	// continue the pattern.
	want := seasonalSeries(42)[36:]
	for i, p := range projected {
		if math.Abs(p.Revenue-want[i].Revenue) > 1e-6*want[i].Revenue {
			t.Fatalf("month %s: got %v, want %v", p.YearMonth, p.Revenue, want[i].Revenue)
		}
	}
}

func TestMonthly_Deterministic(t *testing.T) {
	history := seasonalSeries(30)
	first, err := Monthly(history, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Monthly(history, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated forecasts differ:\n%+v\n%+v", first, second)
	}
}

func TestForecast_ReturnsRequestedHorizon(t *testing.T) {
	history := seasonalSeries(30)
	series := make([]float64, len(history))
	for i, p := range history {
		series[i] = p.Revenue
	}
	model, err := Fit(series, Season)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, horizon := range []int{1, 6, 24} {
		got := model.Forecast(horizon)
		if len(got) != horizon {
			t.Fatalf("horizon %d: got %d values", horizon, len(got))
		}
	}
}

func TestForecast_ZeroHorizon(t *testing.T) {
	model, err := Fit(make([]float64, 2*Season+3), Season)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := model.Forecast(0); got != nil {
		t.Fatalf("expected nil forecast for zero horizon, got %v", got)
	}
}
