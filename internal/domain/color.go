package domain

import (
	"math"
	"sort"
)

// ColorBucket pairs an inclusive upper bound on variance with a fill colour.
type ColorBucket struct {
	Threshold float64
	Color     string
}

// ColorBuckets is the variance palette, coldest first. Thresholds are
// ascending and the last one is +Inf, so every value has a bucket.
var ColorBuckets = []ColorBucket{
	{Threshold: -5.5, Color: "rgb(42, 78, 108)"},
	{Threshold: -4.5, Color: "rgb(49, 91, 126)"},
	{Threshold: -3.5, Color: "rgb(56, 104, 144)"},
	{Threshold: -2.5, Color: "rgb(63, 117, 162)"},
	{Threshold: -1.51, Color: "rgb(255, 253, 208)"},
	{Threshold: 0, Color: "rgb(255, 204, 136)"},
	{Threshold: 2.5, Color: "rgb(255, 173, 51)"},
	{Threshold: 3.5, Color: "rgb(255, 153, 0)"},
	{Threshold: math.Inf(1), Color: "rgb(132, 22, 23)"},
}

// ColorBucketFor returns the index into ColorBuckets for a variance. A value
// equal to a threshold lands in that (cooler) bucket. NaN lands in the last
// bucket.
func ColorBucketFor(variance float64) int {
	idx := sort.Search(len(ColorBuckets), func(i int) bool {
		return variance <= ColorBuckets[i].Threshold
	})
	if idx == len(ColorBuckets) {
		return len(ColorBuckets) - 1
	}
	return idx
}

// ColorFor returns the fill colour for a variance.
func ColorFor(variance float64) string {
	return ColorBuckets[ColorBucketFor(variance)].Color
}
