package engine

import "math"

// Estimate projects the rule's match rate on the sample onto a population of
// the given size. An empty sample yields 0 rather than dividing by zero.
// Rounding is math.Round (half away from zero), kept consistent so repeated
// previews of the same rule never drift.
//
// The projection assumes the sample is representative of the population;
// both sizes come from the caller, never from a constant.
func Estimate(rule Rule, sample []Account, population int) int {
	if len(sample) == 0 || population <= 0 {
		return 0
	}
	matched := len(Match(rule, sample))
	rate := float64(matched) / float64(len(sample))
	return int(math.Round(rate * float64(population)))
}

// MatchRate returns the observed fraction of sample accounts satisfying the
// rule, 0 for an empty sample.
func MatchRate(rule Rule, sample []Account) float64 {
	if len(sample) == 0 {
		return 0
	}
	return float64(len(Match(rule, sample))) / float64(len(sample))
}
