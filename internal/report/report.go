// Package report assembles the run summary and writes the pipeline's
// tabular outputs.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"

	"github.com/misha-la/online-retail-analysis/internal/retail"
	"github.com/misha-la/online-retail-analysis/internal/segment"
)

// Distribution summarizes per-invoice revenue percentiles.
type Distribution struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// Summary is the run-level report written alongside the charts.
type Summary struct {
	RunID          string              `json:"run_id"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Source         string              `json:"source"`
	TotalRevenue   float64             `json:"total_revenue"`
	TotalCustomers int                 `json:"total_customers"`
	TotalInvoices  int                 `json:"total_invoices"`
	TotalLines     int                 `json:"total_lines"`
	ReturnLines    int                 `json:"return_lines"`
	AvgOrderValue  float64             `json:"avg_order_value"`
	InvoiceRevenue Distribution        `json:"invoice_revenue"`
	Segments       []segment.Summary   `json:"segments,omitempty"`
	Forecast       []retail.MonthPoint `json:"forecast,omitempty"`
}

// BuildSummary computes the business metrics block from the cleaned table
// and attaches the segmentation and forecast results.
func BuildSummary(source string, lines []retail.Line, returns int, segments []segment.Summary, projected []retail.MonthPoint) Summary {
	summary := Summary{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		TotalLines:  len(lines),
		ReturnLines: returns,
		Segments:    segments,
		Forecast:    projected,
	}

	customers := map[string]struct{}{}
	for _, l := range lines {
		summary.TotalRevenue += l.Revenue
		customers[l.CustomerID] = struct{}{}
	}
	summary.TotalCustomers = len(customers)

	byInvoice := retail.RevenueByInvoice(lines)
	summary.TotalInvoices = len(byInvoice)
	if len(byInvoice) > 0 {
		summary.AvgOrderValue = summary.TotalRevenue / float64(len(byInvoice))
		summary.InvoiceRevenue = invoiceDistribution(byInvoice)
	}
	return summary
}

// invoiceDistribution records each invoice's revenue in pence into an HDR
// histogram and reads back the percentile summary.
func invoiceDistribution(byInvoice map[string]float64) Distribution {
	// Up to £1m per invoice at 3 significant figures.
	histogram := hdrhistogram.New(1, 100_000_000, 3)
	for _, rev := range byInvoice {
		pence := int64(rev * 100)
		if pence < 1 {
			pence = 1
		}
		_ = histogram.RecordValue(pence)
	}
	pounds := func(pence int64) float64 { return float64(pence) / 100 }
	return Distribution{
		Mean: histogram.Mean() / 100,
		P50:  pounds(histogram.ValueAtQuantile(50)),
		P90:  pounds(histogram.ValueAtQuantile(90)),
		P95:  pounds(histogram.ValueAtQuantile(95)),
		P99:  pounds(histogram.ValueAtQuantile(99)),
		Max:  pounds(histogram.Max()),
	}
}

// WriteJSON writes v as indented JSON under dir with a timestamped name
// and returns the path.
func WriteJSON(dir, name string, v interface{}) (string, error) {
	path := TimestampedFilename(dir, name, "json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}

// WriteForecastCSV writes the projected revenue series as a two-column
// table and returns the path.
func WriteForecastCSV(dir string, projected []retail.MonthPoint) (string, error) {
	path := filepath.Join(dir, "revenue_forecast.csv")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create forecast %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"year_month", "forecast_revenue"}); err != nil {
		return "", fmt.Errorf("write forecast %s: %w", path, err)
	}
	for _, p := range projected {
		if err := w.Write([]string{p.YearMonth, strconv.FormatFloat(p.Revenue, 'f', 2, 64)}); err != nil {
			return "", fmt.Errorf("write forecast %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write forecast %s: %w", path, err)
	}
	return path, nil
}

// TimestampedFilename builds "<dir>/<name>_<timestamp>.<ext>".
func TimestampedFilename(dir, name, ext string) string {
	t := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, t, ext))
}
