package features

import (
	"errors"
	"fmt"
)

// ClassifierThreshold is the probability above which a segment counts toward
// a classifier category.
const ClassifierThreshold = 0.5

// ErrNoPredictions is returned when a model produced no segment rows.
var ErrNoPredictions = errors.New("no predictions to aggregate")

// MeanColumns computes the arithmetic mean of every column across segment
// rows. All rows must have the same width.
func MeanColumns(predictions [][]float64) ([]float64, error) {
	if len(predictions) == 0 {
		return nil, ErrNoPredictions
	}
	width := len(predictions[0])
	if width == 0 {
		return nil, ErrNoPredictions
	}
	sums := make([]float64, width)
	for i, row := range predictions {
		if len(row) != width {
			return nil, fmt.Errorf("prediction row %d has %d columns, expected %d", i, len(row), width)
		}
		for j, value := range row {
			sums[j] += value
		}
	}
	total := float64(len(predictions))
	for j := range sums {
		sums[j] /= total
	}
	return sums, nil
}

// PositiveRatio computes the fraction of segments whose probability for the
// given category column exceeds ClassifierThreshold.
func PositiveRatio(predictions [][]float64, category int) (float64, error) {
	if len(predictions) == 0 {
		return 0, ErrNoPredictions
	}
	if category < 0 {
		return 0, fmt.Errorf("category must be >= 0, got %d", category)
	}
	count := 0
	for i, row := range predictions {
		if category >= len(row) {
			return 0, fmt.Errorf("prediction row %d has %d columns, category %d out of range", i, len(row), category)
		}
		if row[category] > ClassifierThreshold {
			count++
		}
	}
	return float64(count) / float64(len(predictions)), nil
}
