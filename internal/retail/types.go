package retail

import (
	"strings"
	"time"
)

// Transaction is one raw retail line item as loaded from a source.
// Rows are immutable after loading; cleaning filters them but never
// rewrites fields.
type Transaction struct {
	Invoice     string
	StockCode   string
	Description string
	Quantity    int
	UnitPrice   float64
	InvoiceDate time.Time
	CustomerID  string // empty when the source row carried no customer id
	Country     string
}

// IsCancellation reports whether the invoice id marks a cancelled order.
// The dataset prefixes cancellation invoices with "C".
func (t Transaction) IsCancellation() bool {
	return strings.HasPrefix(t.Invoice, "C")
}

// Line is a cleaned sales transaction with engineered features attached.
type Line struct {
	Transaction

	Revenue   float64 // Quantity * UnitPrice
	Year      int
	Month     time.Month
	YearMonth string // "2006-01"
	Weekday   time.Weekday
	Hour      int
}

// CustomerRFM holds the three per-customer aggregate metrics.
type CustomerRFM struct {
	CustomerID string
	Recency    int // days since last purchase, relative to the reference date
	Frequency  int // distinct invoices
	Monetary   float64
}

// Segment is the cluster assignment attached to a customer after segmentation.
type Segment struct {
	Cluster int
	Label   string
}

// SegmentedCustomer is a CustomerRFM row annotated with its segment.
type SegmentedCustomer struct {
	CustomerRFM
	Segment
}

// MonthPoint is one month of aggregated revenue, keyed "2006-01".
type MonthPoint struct {
	YearMonth string  `json:"year_month"`
	Revenue   float64 `json:"revenue"`
}

// ProductRevenue is total revenue attributed to one stock code.
type ProductRevenue struct {
	StockCode   string
	Description string
	Revenue     float64
}

// CountryRevenue is total revenue attributed to one country.
type CountryRevenue struct {
	Country string
	Revenue float64
}
