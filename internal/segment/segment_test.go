package segment

import (
	"reflect"
	"testing"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

func customer(id string, recency, frequency int, monetary float64) retail.CustomerRFM {
	return retail.CustomerRFM{CustomerID: id, Recency: recency, Frequency: frequency, Monetary: monetary}
}

func TestAssign_TopLabelFollowsMonetary(t *testing.T) {
	customers := []retail.CustomerRFM{
		customer("vip1", 2, 40, 9000),
		customer("vip2", 3, 38, 8800),
		customer("dormant1", 300, 1, 15),
		customer("dormant2", 310, 2, 22),
	}
	segmented, summaries, err := Assign(customers, 2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segmented) != 4 || len(summaries) != 2 {
		t.Fatalf("got %d segmented rows and %d summaries", len(segmented), len(summaries))
	}
	if summaries[0].Label != "Ultra VIP Loyalists" {
		t.Fatalf("top summary label: got %q", summaries[0].Label)
	}
	if summaries[0].AvgMonetary < summaries[1].AvgMonetary {
		t.Fatalf("top-ranked cluster has lower monetary: %v < %v",
			summaries[0].AvgMonetary, summaries[1].AvgMonetary)
	}
	for _, c := range segmented {
		if c.CustomerID == "vip1" && c.Label != "Ultra VIP Loyalists" {
			t.Fatalf("vip1 labeled %q", c.Label)
		}
		if c.CustomerID == "dormant1" && c.Label != "At-Risk / Dormant Customers" {
			t.Fatalf("dormant1 labeled %q", c.Label)
		}
	}
}

// A customer with ten high-value invoices
// and one with a single low-value invoice must land in different clusters,
// with the heavy buyer on top. The third customer with no invoices is
// already absent from the RFM table.
func TestAssign_TwoCustomerScenario(t *testing.T) {
	customers := []retail.CustomerRFM{
		customer("heavy", 1, 10, 5000),
		customer("light", 45, 1, 9.99),
	}
	for run := 0; run < 3; run++ {
		segmented, _, err := Assign(customers, 2, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var heavy, light retail.SegmentedCustomer
		for _, c := range segmented {
			switch c.CustomerID {
			case "heavy":
				heavy = c
			case "light":
				light = c
			}
		}
		if heavy.Cluster == light.Cluster {
			t.Fatalf("run %d: customers share cluster %d", run, heavy.Cluster)
		}
		if heavy.Label != "Ultra VIP Loyalists" {
			t.Fatalf("run %d: heavy buyer labeled %q", run, heavy.Label)
		}
	}
}

func TestAssign_Deterministic(t *testing.T) {
	customers := []retail.CustomerRFM{
		customer("a", 5, 3, 120), customer("b", 60, 1, 30),
		customer("c", 2, 9, 800), customer("d", 200, 1, 12),
		customer("e", 20, 4, 340), customer("f", 90, 2, 55),
	}
	first, firstSummaries, err := Assign(customers, 3, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, secondSummaries, err := Assign(customers, 3, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assignments differ across runs")
	}
	if !reflect.DeepEqual(firstSummaries, secondSummaries) {
		t.Fatalf("summaries differ across runs")
	}
}

func TestAssign_MonetaryTieBreaksOnClusterIndex(t *testing.T) {
	// Two clusters with identical monetary value, separated on recency.
	customers := []retail.CustomerRFM{
		customer("a", 1, 1, 100), customer("b", 2, 1, 100),
		customer("c", 400, 1, 100), customer("d", 401, 1, 100),
	}
	_, summaries, err := Assign(customers, 2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries[0].AvgMonetary != summaries[1].AvgMonetary {
		t.Fatalf("expected exact monetary tie, got %v vs %v",
			summaries[0].AvgMonetary, summaries[1].AvgMonetary)
	}
	if summaries[0].Cluster > summaries[1].Cluster {
		t.Fatalf("tie not broken by ascending cluster index: %d before %d",
			summaries[0].Cluster, summaries[1].Cluster)
	}
}

func TestAssign_EmptyInput(t *testing.T) {
	segmented, summaries, err := Assign(nil, 4, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segmented) != 0 || len(summaries) != 0 {
		t.Fatalf("expected empty output, got %d rows and %d summaries", len(segmented), len(summaries))
	}
}

func TestAssign_TooFewCustomers(t *testing.T) {
	_, _, err := Assign([]retail.CustomerRFM{customer("a", 1, 1, 10)}, 4, 42)
	if err == nil {
		t.Fatal("expected error for fewer customers than clusters, got nil")
	}
}

func TestLabelForRank(t *testing.T) {
	if got := labelForRank(0, 2); got != "Ultra VIP Loyalists" {
		t.Fatalf("rank 0 of 2: got %q", got)
	}
	if got := labelForRank(1, 2); got != "At-Risk / Dormant Customers" {
		t.Fatalf("rank 1 of 2: got %q", got)
	}
	if got := labelForRank(2, 4); got != "Active Regular Customers" {
		t.Fatalf("rank 2 of 4: got %q", got)
	}
	if got := labelForRank(3, 6); got != "Tier 4 Customers" {
		t.Fatalf("rank 3 of 6: got %q", got)
	}
}

func TestSweep_PrefersTrueClusterCount(t *testing.T) {
	var customers []retail.CustomerRFM
	groups := []retail.CustomerRFM{
		customer("", 2, 30, 9000),
		customer("", 60, 5, 500),
		customer("", 350, 1, 20),
	}
	for g, base := range groups {
		for i := 0; i < 4; i++ {
			c := base
			c.CustomerID = string(rune('a'+g)) + string(rune('0'+i))
			c.Recency += i
			c.Monetary += float64(i)
			customers = append(customers, c)
		}
	}

	sweep, err := Sweep(customers, 4, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sweep) != 3 {
		t.Fatalf("got %d sweep points, want 3 (k=2..4)", len(sweep))
	}
	if sweep[0].Inertia < sweep[len(sweep)-1].Inertia {
		t.Fatalf("inertia should not grow with k: %v", sweep)
	}
	if got := BestK(sweep); got != 3 {
		t.Fatalf("silhouette-best k: got %d, want 3", got)
	}
}

func TestSweep_TooFewCustomers(t *testing.T) {
	_, err := Sweep([]retail.CustomerRFM{customer("a", 1, 1, 10)}, 8, 42)
	if err == nil {
		t.Fatal("expected error for tiny input, got nil")
	}
}
