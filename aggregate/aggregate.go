// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math"
	"sort"

	"github.com/danielhkuo/formguard-web/models"
)

const (
	// dateKeyLayout groups by UTC calendar day and sorts lexically
	dateKeyLayout = "2006-01-02"
	// labelLayout matches en-US {month: "short", day: "numeric"}
	labelLayout = "Jan 2"
)

// ScoreRanges are the fixed histogram buckets, in display order.
var ScoreRanges = []struct {
	Label string
	Max   int // inclusive upper bound
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", math.MaxInt},
}

type dayTotals struct {
	count      int
	totalScore int
	label      string
}

// BuildTimeSeries groups submissions by calendar day and returns one bucket
// per day with its count and rounded average quality score, oldest first.
func BuildTimeSeries(submissions []models.Submission) []models.TimeBucket {
	days := make(map[string]*dayTotals)
	for _, s := range submissions {
		created := s.CreatedAt.UTC()
		key := created.Format(dateKeyLayout)

		totals, ok := days[key]
		if !ok {
			totals = &dayTotals{label: created.Format(labelLayout)}
			days[key] = totals
		}
		totals.count++
		totals.totalScore += s.QualityScore
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]models.TimeBucket, 0, len(keys))
	for _, key := range keys {
		totals := days[key]
		series = append(series, models.TimeBucket{
			Date:     totals.label,
			Count:    totals.count,
			AvgScore: roundedMean(totals.totalScore, totals.count),
		})
	}

	return series
}

// BuildScoreHistogram counts submissions per quality score range.
// All five ranges are always present. Scores are not clamped.
func BuildScoreHistogram(submissions []models.Submission) []models.ScoreBucket {
	counts := make([]int, len(ScoreRanges))
	for _, s := range submissions {
		counts[bucketIndex(s.QualityScore)]++
	}

	histogram := make([]models.ScoreBucket, len(ScoreRanges))
	for i, r := range ScoreRanges {
		histogram[i] = models.ScoreBucket{Range: r.Label, Count: counts[i]}
	}
	return histogram
}

func bucketIndex(score int) int {
	for i, r := range ScoreRanges {
		if score <= r.Max {
			return i
		}
	}
	return len(ScoreRanges) - 1
}

func roundedMean(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
