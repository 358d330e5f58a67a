package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BinomialDistributions provides unified access to the binomial distribution
// operations the bias calculation needs. All pmf values come from gonum's
// log-space evaluation, which stays finite for large n where a direct
// C(n,k)p^k(1-p)^(n-k) would overflow.
type BinomialDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *BinomialDistributions {
	return &BinomialDistributions{}
}

// PMF returns the dense probability mass function over the support {0,...,n}
// for a binomial distribution with success probability p.
func (bd *BinomialDistributions) PMF(n int, p float64) []float64 {
	pmf := make([]float64, n+1)

	// Degenerate proportions put all mass on a single support point;
	// distuv's log-space formula is undefined there (0*log(0)).
	switch {
	case p <= 0:
		pmf[0] = 1.0
		return pmf
	case p >= 1:
		pmf[n] = 1.0
		return pmf
	}

	dist := distuv.Binomial{N: float64(n), P: p}
	for k := 0; k <= n; k++ {
		pmf[k] = dist.Prob(float64(k))
	}
	return pmf
}

// CumulativeBelow sums pmf mass at support values k <= bound.
// Summation is in insertion order over the support array.
func (bd *BinomialDistributions) CumulativeBelow(pmf []float64, bound float64) float64 {
	total := 0.0
	for k := range pmf {
		if float64(k) <= bound {
			total += pmf[k]
		}
	}
	return total
}

// CumulativeAbove sums pmf mass at support values k >= bound.
func (bd *BinomialDistributions) CumulativeAbove(pmf []float64, bound float64) float64 {
	total := 0.0
	for k := range pmf {
		if float64(k) >= bound {
			total += pmf[k]
		}
	}
	return total
}

// SumRange sums pmf mass over the inclusive integer range [low, high],
// clipped to the support.
func (bd *BinomialDistributions) SumRange(pmf []float64, low, high int) float64 {
	if low < 0 {
		low = 0
	}
	if high > len(pmf)-1 {
		high = len(pmf) - 1
	}
	total := 0.0
	for k := low; k <= high; k++ {
		total += pmf[k]
	}
	return total
}

// GaussianInterval returns the integer bounds of the mean +/- zStd standard
// deviation Gaussian approximation to Binomial(n, p), with the lower bound
// ceiled, the upper bound floored, and both clipped to [0, n]. No continuity
// correction is applied.
func (bd *BinomialDistributions) GaussianInterval(n int, p float64, zStd float64) (low, high int) {
	mean := float64(n) * p
	std := math.Sqrt(mean * (1 - p))

	low = int(math.Ceil(mean - zStd*std))
	high = int(math.Floor(mean + zStd*std))

	if low < 0 {
		low = 0
	}
	if high > n {
		high = n
	}
	return low, high
}
