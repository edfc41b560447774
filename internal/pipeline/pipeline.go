// Package pipeline runs the full analysis end to end: load, quality check,
// clean, RFM, segmentation, charts, forecast, report. Stages run strictly
// in order; I/O and data-shape failures abort the run, modeling and chart
// failures are logged and skipped so earlier outputs stand.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/misha-la/online-retail-analysis/internal/charts"
	"github.com/misha-la/online-retail-analysis/internal/cleaning"
	"github.com/misha-la/online-retail-analysis/internal/config"
	"github.com/misha-la/online-retail-analysis/internal/forecast"
	"github.com/misha-la/online-retail-analysis/internal/report"
	"github.com/misha-la/online-retail-analysis/internal/retail"
	"github.com/misha-la/online-retail-analysis/internal/rfm"
	"github.com/misha-la/online-retail-analysis/internal/segment"
	"github.com/misha-la/online-retail-analysis/internal/source"
)

const sweepMaxK = 8

// Run executes the pipeline against an opened source driver.
func Run(ctx context.Context, cfg *config.Config, driver source.Driver) error {
	bar := progressbar.Default(7)

	log.Printf("[INFO] [1/7] loading transactions from %s source", cfg.Source)
	raw, err := driver.Load(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	log.Printf("[INFO] loaded %d raw rows", len(raw))
	_ = bar.Add(1)

	log.Printf("[INFO] [2/7] checking data quality")
	quality := cleaning.CheckQuality(raw)
	log.Printf("[INFO] quality: rows=%d duplicates=%d missing_customer=%d nonpositive_qty=%d nonpositive_price=%d cancellations=%d",
		quality.Rows, quality.Duplicates, quality.MissingCustomerID,
		quality.NonPositiveQuantity, quality.NonPositivePrice, quality.Cancellations)
	_ = bar.Add(1)

	log.Printf("[INFO] [3/7] cleaning and engineering features")
	cleaned := cleaning.Clean(raw)
	if len(cleaned.Sales) == 0 {
		return fmt.Errorf("no sales rows remain after cleaning %d raw rows", len(raw))
	}
	lines := cleaning.Engineer(cleaned.Sales)
	log.Printf("[INFO] retained %d sales lines, %d returns, dropped %d invalid rows",
		len(lines), len(cleaned.Returns), cleaned.Dropped)
	_ = bar.Add(1)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}

	log.Printf("[INFO] [4/7] computing RFM metrics")
	customers := rfm.Calculate(lines, rfm.ReferenceDate(lines))
	log.Printf("[INFO] RFM computed for %d customers", len(customers))
	_ = bar.Add(1)

	log.Printf("[INFO] [5/7] segmenting customers (k=%d seed=%d)",
		cfg.Analysis.ClusterCount, cfg.Analysis.RandomSeed)
	segmented, summaries, err := segment.Assign(customers, cfg.Analysis.ClusterCount, cfg.Analysis.RandomSeed)
	if err != nil {
		log.Printf("[WARN] segmentation skipped: %v", err)
	}
	for _, s := range summaries {
		log.Printf("[INFO] cluster %d (%s): customers=%d avg_recency=%.0f avg_frequency=%.1f avg_monetary=%.2f",
			s.Cluster, s.Label, s.Customers, s.AvgRecency, s.AvgFrequency, s.AvgMonetary)
	}
	sweep, err := segment.Sweep(customers, sweepMaxK, cfg.Analysis.RandomSeed)
	if err != nil {
		log.Printf("[WARN] cluster sweep skipped: %v", err)
	} else {
		log.Printf("[INFO] silhouette suggests k=%d", segment.BestK(sweep))
	}
	_ = bar.Add(1)

	log.Printf("[INFO] [6/7] rendering charts to %s", cfg.OutputDir)
	monthly := retail.MonthlyRevenue(lines)
	renderCharts(cfg, lines, monthly, segmented, summaries, sweep)
	_ = bar.Add(1)

	log.Printf("[INFO] [7/7] forecasting revenue and writing reports")
	projected, err := forecast.Monthly(monthly, cfg.Analysis.ForecastHorizon)
	if err != nil {
		log.Printf("[WARN] forecast skipped: %v", err)
	} else {
		if err := charts.ForecastPNG(monthly, projected, out(cfg, "revenue_forecast.png")); err != nil {
			log.Printf("[WARN] %v", err)
		}
		path, err := report.WriteForecastCSV(cfg.OutputDir, projected)
		if err != nil {
			return err
		}
		log.Printf("[INFO] forecast written to %s", path)
	}

	summary := report.BuildSummary(cfg.Source, lines, len(cleaned.Returns), summaries, projected)
	path, err := report.WriteJSON(cfg.OutputDir, "analysis_summary", summary)
	if err != nil {
		return err
	}
	log.Printf("[INFO] summary written to %s", path)
	log.Printf("[INFO] total revenue £%.2f across %d customers and %d invoices (avg order £%.2f)",
		summary.TotalRevenue, summary.TotalCustomers, summary.TotalInvoices, summary.AvgOrderValue)
	_ = bar.Add(1)

	return nil
}

// renderCharts draws every chart, logging rather than failing: a broken
// chart must not lose the tabular outputs.
func renderCharts(cfg *config.Config, lines []retail.Line, monthly []retail.MonthPoint,
	segmented []retail.SegmentedCustomer, summaries []segment.Summary, sweep []segment.SweepPoint) {

	if err := charts.MonthlyRevenuePNG(monthly, out(cfg, "monthly_revenue.png")); err != nil {
		log.Printf("[WARN] %v", err)
	}
	top := retail.TopProducts(lines, cfg.Analysis.TopProducts)
	if err := charts.TopProductsPNG(top, out(cfg, "top_products.png")); err != nil {
		log.Printf("[WARN] %v", err)
	}
	if err := charts.CountryRevenueHTML(retail.RevenueByCountry(lines), out(cfg, "country_revenue.html")); err != nil {
		log.Printf("[WARN] %v", err)
	}
	if len(segmented) > 0 {
		if err := charts.ClusterScatterPNG(segmented, summaries, out(cfg, "rfm_clusters.png")); err != nil {
			log.Printf("[WARN] %v", err)
		}
		if err := charts.SegmentScatterHTML(segmented, summaries, out(cfg, "rfm_clusters.html")); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}
	if len(sweep) > 0 {
		if err := charts.ElbowPNG(sweep, out(cfg, "elbow_method.png")); err != nil {
			log.Printf("[WARN] %v", err)
		}
		if err := charts.SilhouettePNG(sweep, out(cfg, "silhouette_scores.png")); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}
}

func out(cfg *config.Config, name string) string {
	return filepath.Join(cfg.OutputDir, name)
}
