package camera

import "math"

// Ease is the cubic ease-in-out curve: slow, fast, slow.
//
//	t < 0.5: 4t³
//	else:    1 − (−2t + 2)³ / 2
func Ease(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
