package controller

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jrygrande/dynasty-dna/model"
)

// minBenchmarkSample is the fewest starters a week needs before its
// distribution is reported; smaller samples are omitted, not errors.
const minBenchmarkSample = 3

func (c *controller) GetBenchmarks(ctx context.Context, rootLeagueID string, pos model.Position, season string, weeks []int) ([]model.WeeklyBenchmark, error) {
	if pos == model.POS_UNKNOWN {
		return nil, fmt.Errorf("a known position is required")
	}

	family, err := c.ResolveFamily(ctx, rootLeagueID)
	if err != nil {
		return nil, err
	}

	benchmarks := make([]model.WeeklyBenchmark, 0, len(weeks))
	for _, week := range weeks {
		key := benchmarkKey{rootLeagueID: rootLeagueID, pos: string(pos), season: season, week: week}
		if b, ok := c.benchmarks.get(key); ok {
			benchmarks = append(benchmarks, b)
			continue
		}

		scores, err := c.db.GetStarterScores(ctx, family, pos, season, week)
		if err != nil {
			return nil, err
		}
		if len(scores) < minBenchmarkSample {
			continue
		}

		sort.Float64s(scores)
		b := model.WeeklyBenchmark{
			Season:     season,
			Week:       week,
			Median:     median(scores),
			TopDecile:  percentile(scores, 0.9),
			SampleSize: len(scores),
		}
		c.benchmarks.put(key, b)
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, nil
}

// median of a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile interpolates linearly between the order statistics of a sorted
// slice at index p*(n-1).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
