package cleaning

import (
	"fmt"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// Result is the outcome of cleaning a raw transaction table. Sales carries
// the retained rows, Returns the cancellation lines, Dropped the count of
// rows discarded for invalid quantity, price or missing customer id.
type Result struct {
	Sales   []retail.Transaction
	Returns []retail.Transaction
	Dropped int
}

// Clean splits cancellations out of the raw table and drops rows that
// cannot participate in customer-level analysis: non-positive quantity,
// non-positive unit price, or no customer id.
func Clean(raw []retail.Transaction) Result {
	var res Result
	for _, tx := range raw {
		switch {
		case tx.IsCancellation():
			res.Returns = append(res.Returns, tx)
		case tx.Quantity <= 0 || tx.UnitPrice <= 0 || tx.CustomerID == "":
			res.Dropped++
		default:
			res.Sales = append(res.Sales, tx)
		}
	}
	return res
}

// Engineer attaches the derived columns used by downstream aggregation:
// line revenue and the calendar fields.
func Engineer(sales []retail.Transaction) []retail.Line {
	lines := make([]retail.Line, 0, len(sales))
	for _, tx := range sales {
		d := tx.InvoiceDate
		lines = append(lines, retail.Line{
			Transaction: tx,
			Revenue:     float64(tx.Quantity) * tx.UnitPrice,
			Year:        d.Year(),
			Month:       d.Month(),
			YearMonth:   d.Format("2006-01"),
			Weekday:     d.Weekday(),
			Hour:        d.Hour(),
		})
	}
	return lines
}

// QualityReport summarizes defects in the raw table before cleaning.
type QualityReport struct {
	Rows                int
	Duplicates          int
	MissingCustomerID   int
	NonPositiveQuantity int
	NonPositivePrice    int
	Cancellations       int
}

// CheckQuality scans the raw table for duplicate rows and per-column
// defects. It never modifies the input.
func CheckQuality(raw []retail.Transaction) QualityReport {
	report := QualityReport{Rows: len(raw)}
	seen := make(map[string]struct{}, len(raw))
	for _, tx := range raw {
		key := fmt.Sprintf("%s|%s|%d|%g|%d|%s", tx.Invoice, tx.StockCode,
			tx.Quantity, tx.UnitPrice, tx.InvoiceDate.Unix(), tx.CustomerID)
		if _, dup := seen[key]; dup {
			report.Duplicates++
		} else {
			seen[key] = struct{}{}
		}
		if tx.CustomerID == "" {
			report.MissingCustomerID++
		}
		if tx.Quantity <= 0 {
			report.NonPositiveQuantity++
		}
		if tx.UnitPrice <= 0 {
			report.NonPositivePrice++
		}
		if tx.IsCancellation() {
			report.Cancellations++
		}
	}
	return report
}
