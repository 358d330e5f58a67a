package bias

import (
	"math"

	"gobias/domain/core"
	"gobias/internal/analysis"
)

// ciStd is the number of standard deviations spanned by the confidence
// interval; 2 approximates a 95% interval under the Gaussian approximation.
const ciStd = 2.0

// Calculator computes selection-bias measures for an appointment process.
// It is stateless and safe for concurrent use: each call operates on its own
// input and output values.
type Calculator struct {
	dist      *analysis.BinomialDistributions
	maxTrials int
}

// NewCalculator creates a bias calculator with the default trials ceiling
func NewCalculator() *Calculator {
	return NewCalculatorWithLimit(MaxTrials)
}

// NewCalculatorWithLimit creates a bias calculator with an explicit trials
// ceiling, typically populated from configuration. A non-positive limit falls
// back to the default.
func NewCalculatorWithLimit(maxTrials int) *Calculator {
	if maxTrials < 1 {
		maxTrials = MaxTrials
	}
	return &Calculator{dist: analysis.NewDistributions(), maxTrials: maxTrials}
}

// Compute validates the input and derives the full set of bias measures.
// The only failure mode is input validation; numeric edge cases are defined
// sentinel values, not errors.
func (c *Calculator) Compute(in Input) (*Result, error) {
	params, err := ValidateWithLimit(in, c.maxTrials)
	if err != nil {
		return nil, err
	}
	return c.computeValidated(params), nil
}

// ComputeBias is the single call contract consumed by external collaborators
func ComputeBias(n int, expected, actual float64, oneSided bool) (*Result, error) {
	return NewCalculator().Compute(Input{
		N:        n,
		Expected: expected,
		Actual:   actual,
		OneSided: oneSided,
	})
}

func (c *Calculator) computeValidated(p Params) *Result {
	n := p.N
	fExpected := p.FExpected()
	fActual := p.FActual()

	ePMF := c.dist.PMF(n, fExpected)
	aPMF := c.dist.PMF(n, fActual)

	// Preference ratio: odds implied for the complementary group over odds
	// implied for the target group. Exactly 1 is a fair process; an actual
	// count of zero makes the target odds vanish, so the ratio is +Inf.
	biasRatio := math.Inf(1)
	if p.ActualCount > 0 {
		other := (float64(n) - p.ActualCount) / (float64(n) - p.ExpectedCount)
		target := p.ActualCount / p.ExpectedCount
		biasRatio = other / target
	}

	// Probability of an outcome at least as extreme as the actual one under
	// the fair distribution. One-sided always reads the lower tail; otherwise
	// the tail follows the side the actual count falls on. This is a
	// deliberate asymmetric policy, not a two-tailed test.
	var cumProb float64
	if p.OneSided || p.ActualCount <= p.ExpectedCount {
		cumProb = c.dist.CumulativeBelow(ePMF, p.ActualCount)
	} else {
		cumProb = c.dist.CumulativeAbove(ePMF, p.ActualCount)
	}

	expectedLow, expectedHigh := c.dist.GaussianInterval(n, fExpected, ciStd)
	actualLow, actualHigh := c.dist.GaussianInterval(n, fActual, ciStd)

	// Chance that a repeat selection at the observed proportion would land
	// inside the fair-process confidence interval
	pFuture := c.dist.SumRange(aPMF, expectedLow, expectedHigh)

	return &Result{
		ID:          core.ComputationID(core.NewID()),
		Fingerprint: core.ComputeInputFingerprint(n, p.ExpectedCount, p.ActualCount, p.OneSided),
		ComputedAt:  core.Now(),

		N:             n,
		ExpectedCount: p.ExpectedCount,
		ActualCount:   p.ActualCount,
		FExpected:     fExpected,
		FActual:       fActual,

		Bias:         Ratio(biasRatio),
		CumProb:      cumProb,
		ExpectedLow:  expectedLow,
		ExpectedHigh: expectedHigh,
		ActualLow:    actualLow,
		ActualHigh:   actualHigh,
		PFuture:      pFuture,

		ExpectedPMF: ePMF,
		ActualPMF:   aPMF,
	}
}
