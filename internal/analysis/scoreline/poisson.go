package scoreline

import "math"

// PMF returns P(X = k) for X ~ Poisson(lambda), computed in log space
func PMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}

	lf, _ := math.Lgamma(float64(k + 1))
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lf)
}

// CDF returns P(X <= k)
func CDF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	total := 0.0
	for i := 0; i <= k; i++ {
		total += PMF(lambda, i)
	}
	return math.Min(1, total)
}

// OverProbability returns P(X > line) for a total-goals line such as 2.5
func OverProbability(lambda, line float64) float64 {
	return 1 - CDF(lambda, int(math.Floor(line)))
}
