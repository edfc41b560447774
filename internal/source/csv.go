package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// CSVDriver reads the Online Retail II CSV export. The published dataset is
// ISO-8859-1 encoded, so the file is decoded through charmap before parsing.
type CSVDriver struct {
	path string
	file *os.File
}

// dateLayouts covers the two timestamp shapes that appear in published
// copies of the dataset.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

func (d *CSVDriver) Open(dsn string) error {
	file, err := os.Open(dsn)
	if err != nil {
		return fmt.Errorf("open csv %s: %w", dsn, err)
	}
	d.path = dsn
	d.file = file
	return nil
}

func (d *CSVDriver) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

func (d *CSVDriver) Load(ctx context.Context) ([]retail.Transaction, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(d.file))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", d.path, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}

	var transactions []retail.Transaction
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s line %d: %w", d.path, line+1, err)
		}
		line++

		tx, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("parse csv %s line %d: %w", d.path, line, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// columnIndexes locates the dataset's eight columns in the header row.
type columnIndexes struct {
	invoice, stockCode, description, quantity, price, date, customer, country int
}

func mapColumns(header []string) (columnIndexes, error) {
	idx := columnIndexes{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "invoice", "invoiceno":
			idx.invoice = i
		case "stockcode":
			idx.stockCode = i
		case "description":
			idx.description = i
		case "quantity":
			idx.quantity = i
		case "price", "unitprice":
			idx.price = i
		case "invoicedate":
			idx.date = i
		case "customerid":
			idx.customer = i
		case "country":
			idx.country = i
		}
	}

	missing := []string{}
	for _, c := range []struct {
		name string
		pos  int
	}{
		{"Invoice", idx.invoice},
		{"StockCode", idx.stockCode},
		{"Description", idx.description},
		{"Quantity", idx.quantity},
		{"Price", idx.price},
		{"InvoiceDate", idx.date},
		{"Customer ID", idx.customer},
		{"Country", idx.country},
	} {
		if c.pos < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "_", "")
}

func parseRecord(record []string, cols columnIndexes) (retail.Transaction, error) {
	var tx retail.Transaction

	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	tx.Invoice = field(cols.invoice)
	tx.StockCode = field(cols.stockCode)
	tx.Description = field(cols.description)
	tx.Country = field(cols.country)
	tx.CustomerID = normalizeCustomerID(field(cols.customer))

	qty, err := strconv.Atoi(field(cols.quantity))
	if err != nil {
		return tx, fmt.Errorf("quantity %q: %w", field(cols.quantity), err)
	}
	tx.Quantity = qty

	price, err := strconv.ParseFloat(field(cols.price), 64)
	if err != nil {
		return tx, fmt.Errorf("price %q: %w", field(cols.price), err)
	}
	tx.UnitPrice = price

	raw := field(cols.date)
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			tx.InvoiceDate = ts
			return tx, nil
		}
	}
	return tx, fmt.Errorf("invoice date %q: no known layout", raw)
}

// normalizeCustomerID strips the float artifact some exports carry
// ("13085.0" for customer 13085).
func normalizeCustomerID(id string) string {
	return strings.TrimSuffix(id, ".0")
}
