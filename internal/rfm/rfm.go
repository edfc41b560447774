package rfm

import (
	"sort"
	"time"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// ReferenceDate is the analysis anchor for recency: one day after the most
// recent invoice in the table, so the freshest buyer has recency 1.
func ReferenceDate(lines []retail.Line) time.Time {
	var max time.Time
	for _, l := range lines {
		if l.InvoiceDate.After(max) {
			max = l.InvoiceDate
		}
	}
	return max.AddDate(0, 0, 1)
}

// Calculate aggregates Recency, Frequency and Monetary per customer from a
// cleaned table. Customers with no retained lines are absent. Output is
// sorted by customer id; the computation is a pure function of its input.
func Calculate(lines []retail.Line, reference time.Time) []retail.CustomerRFM {
	lastPurchase := map[string]time.Time{}
	invoices := map[string]map[string]struct{}{}
	monetary := map[string]float64{}

	for _, l := range lines {
		id := l.CustomerID
		if l.InvoiceDate.After(lastPurchase[id]) {
			lastPurchase[id] = l.InvoiceDate
		}
		if invoices[id] == nil {
			invoices[id] = map[string]struct{}{}
		}
		invoices[id][l.Invoice] = struct{}{}
		monetary[id] += l.Revenue
	}

	out := make([]retail.CustomerRFM, 0, len(monetary))
	for id := range monetary {
		recency := int(reference.Sub(lastPurchase[id]).Hours() / 24)
		if recency < 0 {
			recency = 0
		}
		out = append(out, retail.CustomerRFM{
			CustomerID: id,
			Recency:    recency,
			Frequency:  len(invoices[id]),
			Monetary:   monetary[id],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}
