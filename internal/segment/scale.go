package segment

import "gonum.org/v1/gonum/stat"

// scale standardizes each column to zero mean and unit variance so the
// monetary axis cannot dominate the distance computation. A constant
// column scales to zeros.
func scale(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dims := len(points[0])

	means := make([]float64, dims)
	stddevs := make([]float64, dims)
	col := make([]float64, len(points))
	for d := 0; d < dims; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		means[d] = stat.Mean(col, nil)
		stddevs[d] = stat.StdDev(col, nil)
	}

	scaled := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, dims)
		for d := 0; d < dims; d++ {
			if stddevs[d] > 0 {
				row[d] = (p[d] - means[d]) / stddevs[d]
			}
		}
		scaled[i] = row
	}
	return scaled
}
