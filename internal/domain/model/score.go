package model

import (
	"fmt"
	"math"
)

// MustBeScore panics when v is not a valid score in [0,100]. An out-of-range
// score is a broken invariant, never a business condition.
func MustBeScore(name string, v float64) {
	if math.IsNaN(v) || v < 0 || v > 100 {
		panic(fmt.Sprintf("%s score %v outside [0,100]", name, v))
	}
}

// ClampScore bounds v to [0,100].
func ClampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
