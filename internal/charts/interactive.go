package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/misha-la/online-retail-analysis/internal/retail"
	"github.com/misha-la/online-retail-analysis/internal/segment"
)

// CountryRevenueHTML renders an interactive bar chart of revenue per
// country, highest first.
func CountryRevenueHTML(countries []retail.CountryRevenue, path string) error {
	if len(countries) == 0 {
		return fmt.Errorf("charts: no country revenue to plot")
	}

	names := make([]string, len(countries))
	data := make([]opts.BarData, len(countries))
	for i, c := range countries {
		names[i] = c.Country
		data[i] = opts.BarData{Value: c.Revenue}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Revenue by Country"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
	)
	bar.SetXAxis(names).AddSeries("Revenue (£)", data)

	return render(bar, path)
}

// SegmentScatterHTML renders the interactive segment scatter, one series
// per persona in rank order.
func SegmentScatterHTML(customers []retail.SegmentedCustomer, summaries []segment.Summary, path string) error {
	if len(customers) == 0 {
		return fmt.Errorf("charts: no segmented customers to plot")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Customer Segments (Frequency vs Monetary)"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "700px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frequency", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Monetary (£)", Type: "value"}),
	)

	for _, s := range summaries {
		var data []opts.ScatterData
		for _, c := range customers {
			if c.Cluster != s.Cluster {
				continue
			}
			data = append(data, opts.ScatterData{
				Value:      []interface{}{c.Frequency, c.Monetary},
				SymbolSize: 8,
			})
		}
		scatter.AddSeries(s.Label, data)
	}

	return render(scatter, path)
}

type renderer interface {
	Render(w io.Writer) error
}

func render(chart renderer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("charts: create %s: %w", path, err)
	}
	defer file.Close()
	if err := chart.Render(file); err != nil {
		return fmt.Errorf("charts: render %s: %w", path, err)
	}
	return nil
}
