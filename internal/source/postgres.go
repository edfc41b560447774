package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

type PostgresDriver struct {
	conn *pgx.Conn
}

func (pd *PostgresDriver) Open(dsn string) error {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	pd.conn = conn
	return nil
}

func (pd *PostgresDriver) Close() error {
	if pd.conn == nil {
		return nil
	}
	return pd.conn.Close(context.Background())
}

func (pd *PostgresDriver) Load(ctx context.Context) ([]retail.Transaction, error) {
	rows, err := pd.conn.Query(ctx, transactionQuery)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []retail.Transaction
	for rows.Next() {
		var (
			tx       retail.Transaction
			customer *string
		)
		if err := rows.Scan(&tx.Invoice, &tx.StockCode, &tx.Description,
			&tx.Quantity, &tx.UnitPrice, &tx.InvoiceDate, &customer, &tx.Country); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if customer != nil {
			tx.CustomerID = *customer
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return transactions, nil
}
