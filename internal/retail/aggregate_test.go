package retail

import (
	"testing"
)

func line(invoice, stock, description, country, yearMonth string, revenue float64) Line {
	return Line{
		Transaction: Transaction{
			Invoice:     invoice,
			StockCode:   stock,
			Description: description,
			Country:     country,
		},
		Revenue:   revenue,
		YearMonth: yearMonth,
	}
}

func TestMonthlyRevenue(t *testing.T) {
	lines := []Line{
		line("I1", "A", "a", "UK", "2011-02", 10),
		line("I2", "A", "a", "UK", "2011-01", 5),
		line("I3", "B", "b", "UK", "2011-02", 7),
	}
	got := MonthlyRevenue(lines)
	if len(got) != 2 {
		t.Fatalf("got %d months, want 2", len(got))
	}
	if got[0].YearMonth != "2011-01" || got[0].Revenue != 5 {
		t.Fatalf("first month wrong: %+v", got[0])
	}
	if got[1].YearMonth != "2011-02" || got[1].Revenue != 17 {
		t.Fatalf("second month wrong: %+v", got[1])
	}
}

func TestTopProducts(t *testing.T) {
	lines := []Line{
		line("I1", "A", "candle", "UK", "2011-01", 10),
		line("I2", "A", "candle", "UK", "2011-01", 15),
		line("I3", "B", "mug", "UK", "2011-01", 40),
		line("I4", "C", "bag", "UK", "2011-01", 1),
	}
	got := TopProducts(lines, 2)
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].StockCode != "B" || got[0].Revenue != 40 {
		t.Fatalf("top product wrong: %+v", got[0])
	}
	if got[1].StockCode != "A" || got[1].Revenue != 25 {
		t.Fatalf("second product wrong: %+v", got[1])
	}
}

func TestTopProducts_TieBreaksOnStockCode(t *testing.T) {
	lines := []Line{
		line("I1", "Z", "z", "UK", "2011-01", 10),
		line("I2", "A", "a", "UK", "2011-01", 10),
	}
	got := TopProducts(lines, 0)
	if got[0].StockCode != "A" || got[1].StockCode != "Z" {
		t.Fatalf("tie not broken on stock code: %+v", got)
	}
}

func TestRevenueByCountry(t *testing.T) {
	lines := []Line{
		line("I1", "A", "a", "France", "2011-01", 10),
		line("I2", "A", "a", "United Kingdom", "2011-01", 90),
		line("I3", "B", "b", "France", "2011-01", 5),
	}
	got := RevenueByCountry(lines)
	if len(got) != 2 {
		t.Fatalf("got %d countries, want 2", len(got))
	}
	if got[0].Country != "United Kingdom" || got[0].Revenue != 90 {
		t.Fatalf("top country wrong: %+v", got[0])
	}
	if got[1].Country != "France" || got[1].Revenue != 15 {
		t.Fatalf("second country wrong: %+v", got[1])
	}
}

func TestRevenueByInvoice(t *testing.T) {
	lines := []Line{
		line("I1", "A", "a", "UK", "2011-01", 10),
		line("I1", "B", "b", "UK", "2011-01", 2.5),
		line("I2", "A", "a", "UK", "2011-01", 7),
	}
	got := RevenueByInvoice(lines)
	if len(got) != 2 {
		t.Fatalf("got %d invoices, want 2", len(got))
	}
	if got["I1"] != 12.5 || got["I2"] != 7 {
		t.Fatalf("invoice totals wrong: %v", got)
	}
}

func TestIsCancellation(t *testing.T) {
	if !(Transaction{Invoice: "C536379"}).IsCancellation() {
		t.Fatal("C-prefixed invoice not detected as cancellation")
	}
	if (Transaction{Invoice: "536379"}).IsCancellation() {
		t.Fatal("plain invoice flagged as cancellation")
	}
}
