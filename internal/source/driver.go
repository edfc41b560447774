package source

import (
	"context"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// Driver loads raw transaction rows from one backing store. Implementations
// exist for a CSV file, PostgreSQL, MySQL and MongoDB; the pipeline treats
// them interchangeably.
type Driver interface {
	Open(dsn string) error
	Close() error
	Load(ctx context.Context) ([]retail.Transaction, error)
}

// transactionQuery is the row shape every SQL driver selects; the scan
// order below depends on it.
const transactionQuery = `SELECT invoice, stock_code, description, quantity, unit_price, invoice_date, customer_id, country FROM transactions ORDER BY invoice_date, invoice`
