// Package elo implements the paired-comparison rating update.
package elo

import "math"

// DefaultK is the standard rating volatility constant.
const DefaultK = 32

// Update returns the new ratings for both sides given their current ratings
// and observed outcome scores in [0,1]. The outcome is the aggregated judge
// score, not a 0/1 win indicator. Each side is rounded to the nearest
// integer independently.
func Update(ratingA, ratingB int, scoreA, scoreB, k float64) (int, int) {
	expectedA := 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
	expectedB := 1 / (1 + math.Pow(10, float64(ratingA-ratingB)/400))
	newA := float64(ratingA) + k*(scoreA-expectedA)
	newB := float64(ratingB) + k*(scoreB-expectedB)
	return int(math.Round(newA)), int(math.Round(newB))
}
