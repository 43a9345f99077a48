// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate turns submission records into chart datasets.

# Time Series

BuildTimeSeries groups submissions by the UTC calendar day of CreatedAt:

	series := aggregate.BuildTimeSeries(submissions)
	// [{Date: "Mar 4", Count: 12, AvgScore: 71}, ...]

Grouping uses a YYYY-MM-DD key, never the display label, so two days that
format alike cannot merge. Buckets are sorted oldest first. AvgScore is the
arithmetic mean rounded to the nearest integer.

# Score Histogram

BuildScoreHistogram classifies each submission into one of five ranges
with inclusive upper bounds:

	0-20, 21-40, 41-60, 61-80, 81-100

Every range is emitted, in that order, even when empty. Bucket counts
always sum to len(submissions).

Both functions are pure: the same input yields identical output.
*/
package aggregate
