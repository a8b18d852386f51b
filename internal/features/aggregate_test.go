package features

import (
	"errors"
	"math"
	"testing"
)

func TestMeanColumns(t *testing.T) {
	predictions := [][]float64{
		{0.2, 0.8},
		{0.4, 0.6},
		{0.6, 0.4},
	}
	means, err := MeanColumns(predictions)
	if err != nil {
		t.Fatalf("MeanColumns: %v", err)
	}
	if len(means) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(means))
	}
	if math.Abs(means[0]-0.4) > 1e-12 {
		t.Fatalf("unexpected mean[0]: %v", means[0])
	}
	if math.Abs(means[1]-0.6) > 1e-12 {
		t.Fatalf("unexpected mean[1]: %v", means[1])
	}
}

func TestMeanColumnsRejectsRaggedRows(t *testing.T) {
	_, err := MeanColumns([][]float64{{0.1, 0.9}, {0.5}})
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestMeanColumnsRejectsEmpty(t *testing.T) {
	if _, err := MeanColumns(nil); !errors.Is(err, ErrNoPredictions) {
		t.Fatalf("expected ErrNoPredictions, got %v", err)
	}
	if _, err := MeanColumns([][]float64{{}}); !errors.Is(err, ErrNoPredictions) {
		t.Fatalf("expected ErrNoPredictions for empty row, got %v", err)
	}
}

func TestPositiveRatio(t *testing.T) {
	predictions := [][]float64{
		{0.9, 0.1},
		{0.6, 0.4},
		{0.2, 0.8},
		{0.5, 0.5}, // exactly at threshold does not count
	}
	ratio, err := PositiveRatio(predictions, 0)
	if err != nil {
		t.Fatalf("PositiveRatio: %v", err)
	}
	if math.Abs(ratio-0.5) > 1e-12 {
		t.Fatalf("unexpected ratio for category 0: %v", ratio)
	}

	ratio, err = PositiveRatio(predictions, 1)
	if err != nil {
		t.Fatalf("PositiveRatio: %v", err)
	}
	if math.Abs(ratio-0.25) > 1e-12 {
		t.Fatalf("unexpected ratio for category 1: %v", ratio)
	}
}

func TestPositiveRatioErrors(t *testing.T) {
	if _, err := PositiveRatio(nil, 0); !errors.Is(err, ErrNoPredictions) {
		t.Fatalf("expected ErrNoPredictions, got %v", err)
	}
	if _, err := PositiveRatio([][]float64{{0.1, 0.9}}, 2); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := PositiveRatio([][]float64{{0.1}}, -1); err == nil {
		t.Fatal("expected negative category error")
	}
}
