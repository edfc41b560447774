package segment

import (
	"fmt"
	"sort"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

// personaNames are the business labels, best rank first. The top-ranked
// cluster always gets the first name and the bottom-ranked the last;
// middle ranks fill from the remaining names, then fall back to generated
// tier names when the cluster count exceeds four.
var personaNames = []string{
	"Ultra VIP Loyalists",
	"High-Value Loyal Customers",
	"Active Regular Customers",
	"At-Risk / Dormant Customers",
}

// Summary describes one cluster after labeling.
type Summary struct {
	Cluster      int     `json:"cluster"`
	Label        string  `json:"label"`
	Customers    int     `json:"customers"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
	Monetary     float64 `json:"total_monetary"`
}

// Assign scales the RFM table, clusters it with seeded K-means and labels
// every customer. Labels are a pure function of the fitted centroids:
// clusters rank by descending mean monetary value, with ascending cluster
// index as the tie-break, and ranks map onto the persona names. An empty
// table yields empty output with no error.
func Assign(customers []retail.CustomerRFM, k int, seed int64) ([]retail.SegmentedCustomer, []Summary, error) {
	if len(customers) == 0 {
		return nil, nil, nil
	}
	if len(customers) < k {
		return nil, nil, fmt.Errorf("segment: %d customers cannot fill %d clusters", len(customers), k)
	}

	points := featureMatrix(customers)
	result, err := kMeans(scale(points), k, seed)
	if err != nil {
		return nil, nil, err
	}

	summaries := summarize(customers, result.assignments, k)
	labelByRank(summaries)

	labels := make(map[int]string, k)
	for _, s := range summaries {
		labels[s.Cluster] = s.Label
	}

	segmented := make([]retail.SegmentedCustomer, len(customers))
	for i, c := range customers {
		cluster := result.assignments[i]
		segmented[i] = retail.SegmentedCustomer{
			CustomerRFM: c,
			Segment:     retail.Segment{Cluster: cluster, Label: labels[cluster]},
		}
	}
	return segmented, summaries, nil
}

func featureMatrix(customers []retail.CustomerRFM) [][]float64 {
	points := make([][]float64, len(customers))
	for i, c := range customers {
		points[i] = []float64{float64(c.Recency), float64(c.Frequency), c.Monetary}
	}
	return points
}

func summarize(customers []retail.CustomerRFM, assignments []int, k int) []Summary {
	summaries := make([]Summary, k)
	for c := range summaries {
		summaries[c].Cluster = c
	}
	for i, customer := range customers {
		s := &summaries[assignments[i]]
		s.Customers++
		s.AvgRecency += float64(customer.Recency)
		s.AvgFrequency += float64(customer.Frequency)
		s.Monetary += customer.Monetary
	}
	for c := range summaries {
		if n := float64(summaries[c].Customers); n > 0 {
			summaries[c].AvgRecency /= n
			summaries[c].AvgFrequency /= n
			summaries[c].AvgMonetary = summaries[c].Monetary / n
		}
	}
	return summaries
}

// labelByRank orders summaries by descending average monetary value
// (ascending cluster index on exact ties) and assigns persona names by
// rank.
func labelByRank(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].AvgMonetary != summaries[j].AvgMonetary {
			return summaries[i].AvgMonetary > summaries[j].AvgMonetary
		}
		return summaries[i].Cluster < summaries[j].Cluster
	})
	for rank := range summaries {
		summaries[rank].Label = labelForRank(rank, len(summaries))
	}
}

func labelForRank(rank, k int) string {
	switch {
	case rank == 0:
		return personaNames[0]
	case rank == k-1:
		return personaNames[len(personaNames)-1]
	case rank < len(personaNames)-1:
		return personaNames[rank]
	default:
		return fmt.Sprintf("Tier %d Customers", rank+1)
	}
}
