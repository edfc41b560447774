// Package charts renders the pipeline's visualizations: static PNGs via
// gonum/plot and interactive HTML via go-echarts. Chart functions are pure
// consumers of already-computed tables.
package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/misha-la/online-retail-analysis/internal/retail"
	"github.com/misha-la/online-retail-analysis/internal/segment"
)

// MonthlyRevenuePNG draws the monthly revenue trend line.
func MonthlyRevenuePNG(points []retail.MonthPoint, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("charts: no monthly revenue to plot")
	}
	p := plot.New()
	p.Title.Text = "Monthly Revenue Over Time"
	p.X.Label.Text = "Year-Month"
	p.Y.Label.Text = "Revenue (£)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(i), Y: pt.Revenue}
		labels[i] = pt.YearMonth
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("charts: monthly revenue line: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.X.Tick.Marker = monthTicker(labels)

	return save(p, 12, 5, path)
}

// ForecastPNG draws revenue history with the projected horizon appended as
// a second series.
func ForecastPNG(history, projected []retail.MonthPoint, path string) error {
	if len(history) == 0 || len(projected) == 0 {
		return fmt.Errorf("charts: nothing to plot for forecast")
	}
	p := plot.New()
	p.Title.Text = "Monthly Revenue Forecast"
	p.X.Label.Text = "Year-Month"
	p.Y.Label.Text = "Revenue (£)"
	p.Add(plotter.NewGrid())

	labels := make([]string, 0, len(history)+len(projected))
	histXYs := make(plotter.XYs, len(history))
	for i, pt := range history {
		histXYs[i] = plotter.XY{X: float64(i), Y: pt.Revenue}
		labels = append(labels, pt.YearMonth)
	}
	// Anchor the forecast line to the last observed month.
	fcXYs := make(plotter.XYs, 0, len(projected)+1)
	fcXYs = append(fcXYs, histXYs[len(histXYs)-1])
	for j, pt := range projected {
		fcXYs = append(fcXYs, plotter.XY{X: float64(len(history) + j), Y: pt.Revenue})
		labels = append(labels, pt.YearMonth)
	}

	histLine, err := plotter.NewLine(histXYs)
	if err != nil {
		return fmt.Errorf("charts: forecast history line: %w", err)
	}
	histLine.Color = plotutil.Color(0)
	fcLine, err := plotter.NewLine(fcXYs)
	if err != nil {
		return fmt.Errorf("charts: forecast line: %w", err)
	}
	fcLine.Color = plotutil.Color(1)
	fcLine.Dashes = plotutil.Dashes(1)

	p.Add(histLine, fcLine)
	p.Legend.Add("observed", histLine)
	p.Legend.Add("forecast", fcLine)
	p.Legend.Top = true
	p.X.Tick.Marker = monthTicker(labels)

	return save(p, 12, 5, path)
}

// TopProductsPNG draws a bar chart of the highest-revenue stock codes.
func TopProductsPNG(products []retail.ProductRevenue, path string) error {
	if len(products) == 0 {
		return fmt.Errorf("charts: no products to plot")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Products by Revenue", len(products))
	p.Y.Label.Text = "Revenue (£)"

	values := make(plotter.Values, len(products))
	names := make([]string, len(products))
	for i, pr := range products {
		values[i] = pr.Revenue
		names[i] = truncate(pr.Description, 16)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("charts: top products bars: %w", err)
	}
	bars.Color = plotutil.Color(2)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return save(p, 14, 6, path)
}

// ClusterScatterPNG draws the RFM scatter, one colored series per segment
// in rank order.
func ClusterScatterPNG(customers []retail.SegmentedCustomer, summaries []segment.Summary, path string) error {
	if len(customers) == 0 {
		return fmt.Errorf("charts: no segmented customers to plot")
	}
	p := plot.New()
	p.Title.Text = "Customer Segments by Frequency and Monetary Value"
	p.X.Label.Text = "Frequency (distinct invoices)"
	p.Y.Label.Text = "Monetary Value (£)"
	p.Add(plotter.NewGrid())

	for i, s := range summaries {
		var xys plotter.XYs
		for _, c := range customers {
			if c.Cluster != s.Cluster {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c.Frequency), Y: c.Monetary})
		}
		if len(xys) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("charts: cluster scatter: %w", err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add(s.Label, scatter)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, 12, 7, path)
}

// ElbowPNG draws inertia against candidate cluster counts.
func ElbowPNG(sweep []segment.SweepPoint, path string) error {
	return sweepLine(sweep, "Elbow Method for Optimal k", "Inertia (within-cluster sum of squares)",
		func(pt segment.SweepPoint) float64 { return pt.Inertia }, 0, path)
}

// SilhouettePNG draws mean silhouette score against candidate cluster
// counts.
func SilhouettePNG(sweep []segment.SweepPoint, path string) error {
	return sweepLine(sweep, "Silhouette Score by Number of Clusters", "Mean silhouette score",
		func(pt segment.SweepPoint) float64 { return pt.Silhouette }, 3, path)
}

func sweepLine(sweep []segment.SweepPoint, title, yLabel string, value func(segment.SweepPoint) float64, color int, path string) error {
	if len(sweep) == 0 {
		return fmt.Errorf("charts: empty cluster sweep")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Number of Clusters (k)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(sweep))
	for i, pt := range sweep {
		xys[i] = plotter.XY{X: float64(pt.K), Y: value(pt)}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("charts: sweep line: %w", err)
	}
	line.Color = plotutil.Color(color)
	points.Color = plotutil.Color(color)
	p.Add(line, points)

	return save(p, 8, 5, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w*vg.Inch, h*vg.Inch, path); err != nil {
		return fmt.Errorf("charts: save %s: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// monthTicker labels a line chart's x axis with at most eight month keys.
type monthTicker []string

func (m monthTicker) Ticks(min, max float64) []plot.Tick {
	step := int(math.Ceil(float64(len(m)) / 8))
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < len(m); i++ {
		t := plot.Tick{Value: float64(i)}
		if i%step == 0 || i == len(m)-1 {
			t.Label = m[i]
		}
		ticks = append(ticks, t)
	}
	return ticks
}
