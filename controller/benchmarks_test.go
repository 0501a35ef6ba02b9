package controller

import (
	"context"
	"testing"

	"github.com/jrygrande/dynasty-dna/db/mockdb"
	"github.com/jrygrande/dynasty-dna/model"
	"github.com/stretchr/testify/mock"
)

func TestGetBenchmarks(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("GetLeague", mock.Anything, "L1").
		Return(&model.League{ID: "L1", Season: "2023"}, nil)
	// Week 1 has a big enough sample; week 2 does not and must be omitted.
	mockDB.On("GetStarterScores", mock.Anything, []string{"L1"}, model.POS_RB, "2023", 1).
		Return([]float64{20.0, 10.0, 30.0, 40.0}, nil).Once()
	mockDB.On("GetStarterScores", mock.Anything, []string{"L1"}, model.POS_RB, "2023", 2).
		Return([]float64{12.0, 8.0}, nil)

	ctrl := newMockedController(t, mockDB)

	benchmarks, err := ctrl.GetBenchmarks(context.Background(), "L1", model.POS_RB, "2023", []int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(benchmarks) != 1 {
		t.Fatalf("expected 1 benchmark, got %d", len(benchmarks))
	}

	b := benchmarks[0]
	if b.Season != "2023" || b.Week != 1 || b.SampleSize != 4 {
		t.Errorf("benchmark keys not as expected: %+v", b)
	}
	if b.Median != 25.0 {
		t.Errorf("expected median 25, got %f", b.Median)
	}
	// Sorted scores are [10 20 30 40]; the 90th percentile interpolates at
	// index 2.7 for 37.
	if b.TopDecile != 37.0 {
		t.Errorf("expected top decile 37, got %f", b.TopDecile)
	}

	// The qualifying week is cached; the upstream query must not repeat.
	again, err := ctrl.GetBenchmarks(context.Background(), "L1", model.POS_RB, "2023", []int{1})
	if err != nil {
		t.Fatalf("unexpected error on cached read: %v", err)
	}
	if len(again) != 1 || again[0] != b {
		t.Errorf("cached benchmark not as expected: %+v", again)
	}
	mockDB.AssertExpectations(t)
}

func TestGetBenchmarks_unknownPosition(t *testing.T) {
	ctrl := newMockedController(t, &mockdb.DB{})

	if _, err := ctrl.GetBenchmarks(context.Background(), "L1", model.POS_UNKNOWN, "2023", []int{1}); err == nil {
		t.Error("expected an error for an unknown position")
	}
}

func TestMedian(t *testing.T) {
	tests := map[string]struct {
		sorted   []float64
		expected float64
	}{
		"odd":    {sorted: []float64{1, 5, 9}, expected: 5},
		"even":   {sorted: []float64{1, 3, 5, 9}, expected: 4},
		"single": {sorted: []float64{7}, expected: 7},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if m := median(tc.sorted); m != tc.expected {
				t.Errorf("expected %f, got %f", tc.expected, m)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	tests := map[string]struct {
		sorted   []float64
		p        float64
		expected float64
	}{
		"interpolated":  {sorted: []float64{10, 20, 30, 40}, p: 0.9, expected: 37},
		"exact index":   {sorted: []float64{10, 20, 30, 40, 50, 60}, p: 0.8, expected: 50},
		"single sample": {sorted: []float64{42}, p: 0.9, expected: 42},
		"max":           {sorted: []float64{10, 20, 30}, p: 1.0, expected: 30},
		"min":           {sorted: []float64{10, 20, 30}, p: 0.0, expected: 10},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if v := percentile(tc.sorted, tc.p); v != tc.expected {
				t.Errorf("expected %f, got %f", tc.expected, v)
			}
		})
	}
}
