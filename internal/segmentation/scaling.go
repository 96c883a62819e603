package segmentation

import "math"

// StandardScaler holds per-feature mean and population standard deviation
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// FitStandardScaler computes the scaling parameters of rows. All rows must
// have the same width.
func FitStandardScaler(rows [][]float64) *StandardScaler {
	if len(rows) == 0 {
		return &StandardScaler{}
	}
	width := len(rows[0])
	s := &StandardScaler{Mean: make([]float64, width), Std: make([]float64, width)}

	n := float64(len(rows))
	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
	}
	return s
}

// Transform returns the z-scores of rows. A feature with zero deviation maps
// to 0.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.Std[j] > 0 {
				scaled[j] = (v - s.Mean[j]) / s.Std[j]
			}
		}
		out[i] = scaled
	}
	return out
}

// StandardScale fits and transforms in one step
func StandardScale(rows [][]float64) [][]float64 {
	return FitStandardScaler(rows).Transform(rows)
}
