package retail

import "sort"

// MonthlyRevenue sums line revenue per calendar month, sorted ascending by
// the "2006-01" key.
func MonthlyRevenue(lines []Line) []MonthPoint {
	totals := map[string]float64{}
	for _, l := range lines {
		totals[l.YearMonth] += l.Revenue
	}
	out := make([]MonthPoint, 0, len(totals))
	for ym, rev := range totals {
		out = append(out, MonthPoint{YearMonth: ym, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

// TopProducts returns the n stock codes with the highest total revenue,
// descending. Ties break on ascending stock code so the ordering is stable
// across runs.
func TopProducts(lines []Line, n int) []ProductRevenue {
	totals := map[string]*ProductRevenue{}
	for _, l := range lines {
		p, ok := totals[l.StockCode]
		if !ok {
			p = &ProductRevenue{StockCode: l.StockCode, Description: l.Description}
			totals[l.StockCode] = p
		}
		p.Revenue += l.Revenue
	}
	out := make([]ProductRevenue, 0, len(totals))
	for _, p := range totals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].StockCode < out[j].StockCode
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RevenueByCountry sums line revenue per country, descending by revenue
// with ascending country name as tie-break.
func RevenueByCountry(lines []Line) []CountryRevenue {
	totals := map[string]float64{}
	for _, l := range lines {
		totals[l.Country] += l.Revenue
	}
	out := make([]CountryRevenue, 0, len(totals))
	for c, rev := range totals {
		out = append(out, CountryRevenue{Country: c, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// RevenueByInvoice sums line revenue per invoice id.
func RevenueByInvoice(lines []Line) map[string]float64 {
	totals := map[string]float64{}
	for _, l := range lines {
		totals[l.Invoice] += l.Revenue
	}
	return totals
}
