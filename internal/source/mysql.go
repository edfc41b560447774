package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

type MySQLDriver struct {
	db *sql.DB
}

func (md *MySQLDriver) Open(dsn string) error {
	// The driver needs parseTime to scan DATETIME into time.Time.
	if !strings.Contains(dsn, "parseTime") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "parseTime=true&loc=UTC"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	md.db = db
	return nil
}

func (md *MySQLDriver) Close() error {
	if md.db == nil {
		return nil
	}
	return md.db.Close()
}

func (md *MySQLDriver) Load(ctx context.Context) ([]retail.Transaction, error) {
	rows, err := md.db.QueryContext(ctx, transactionQuery)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []retail.Transaction
	for rows.Next() {
		var (
			tx       retail.Transaction
			customer sql.NullString
		)
		if err := rows.Scan(&tx.Invoice, &tx.StockCode, &tx.Description,
			&tx.Quantity, &tx.UnitPrice, &tx.InvoiceDate, &customer, &tx.Country); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if customer.Valid {
			tx.CustomerID = customer.String
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return transactions, nil
}
