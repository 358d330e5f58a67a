package bias

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobias/domain/core"
)

// TestPaperScenarios checks the regression fixtures from the paper
func TestPaperScenarios(t *testing.T) {
	cases := []struct {
		name     string
		n        int
		expected float64
		actual   float64
		cumProb  float64
		cumTol   float64
		pFuture  float64
		futTol   float64
	}{
		{name: "coin_toss", n: 10, expected: 5, actual: 2, cumProb: 0.055, cumTol: 0.01, pFuture: 0.62, futTol: 0.01},
		{name: "die_roll", n: 12, expected: 2, actual: 2, cumProb: 0.68, cumTol: 0.01, pFuture: 0.96, futTol: 0.01},
		{name: "vc_sexism", n: 40, expected: 20, actual: 13, cumProb: 0.019, cumTol: 0.01, pFuture: 0.43, futTol: 0.01},
		{name: "combined_racism", n: 38, expected: 0.38, actual: 2, cumProb: 3.9e-6, cumTol: 1e-6, pFuture: 1.3e-4, futTol: 1e-5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputeBias(tc.n, tc.expected, tc.actual, true)
			require.NoError(t, err)

			assert.InDelta(t, tc.cumProb, res.CumProb, tc.cumTol, "cum_prob")
			assert.InDelta(t, tc.pFuture, res.PFuture, tc.futTol, "p_future")
		})
	}
}

// TestResultInvariants checks the bounds that must hold for any valid input
func TestResultInvariants(t *testing.T) {
	cases := []struct {
		n        int
		expected float64
		actual   float64
	}{
		{10, 5, 2},
		{10, 5, 0},
		{10, 5, 10},
		{12, 2, 2},
		{40, 20, 13},
		{38, 0.38, 2},
		{2, 1, 0},
		{500, 0.123, 499},
	}

	for _, tc := range cases {
		res, err := ComputeBias(tc.n, tc.expected, tc.actual, true)
		if err != nil {
			t.Fatalf("n=%d expected=%v actual=%v: %v", tc.n, tc.expected, tc.actual, err)
		}

		if res.CumProb < 0 || res.CumProb > 1 {
			t.Errorf("cum_prob out of range: %v", res.CumProb)
		}
		if res.PFuture < 0 || res.PFuture > 1 {
			t.Errorf("p_future out of range: %v", res.PFuture)
		}
		if res.ExpectedLow > res.ExpectedHigh {
			t.Errorf("expected interval inverted: [%d, %d]", res.ExpectedLow, res.ExpectedHigh)
		}
		if res.ExpectedLow < 0 || res.ExpectedHigh > res.N {
			t.Errorf("expected interval outside support: [%d, %d]", res.ExpectedLow, res.ExpectedHigh)
		}
		if res.ActualLow > res.ActualHigh || res.ActualLow < 0 || res.ActualHigh > res.N {
			t.Errorf("actual interval invalid: [%d, %d]", res.ActualLow, res.ActualHigh)
		}

		for _, pmf := range [][]float64{res.ExpectedPMF, res.ActualPMF} {
			if len(pmf) != res.N+1 {
				t.Fatalf("pmf length %d, want %d", len(pmf), res.N+1)
			}
			sum := 0.0
			for _, p := range pmf {
				sum += p
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("pmf sums to %v, want 1", sum)
			}
		}
	}
}

// TestBiasRatio checks the fair-process and zero-actual sentinels
func TestBiasRatio(t *testing.T) {
	fair, err := ComputeBias(10, 5, 5, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, float64(fair.Bias), "equal counts are exactly fair")
	assert.False(t, fair.BiasUnbounded())

	zero, err := ComputeBias(10, 5, 0, true)
	require.NoError(t, err)
	assert.True(t, zero.BiasUnbounded(), "zero actual count yields the +Inf sentinel")

	// Worked example: n=10, expected 5, actual 2 gives (8/5)/(2/5) = 4
	skewed, err := ComputeBias(10, 5, 2, true)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, float64(skewed.Bias), 1e-12)
}

// TestTailPolicy checks the asymmetric tail direction rules
func TestTailPolicy(t *testing.T) {
	// Actual above expected: one-sided still reads the lower tail
	oneSided, err := ComputeBias(40, 20, 25, true)
	require.NoError(t, err)

	flipped, err := ComputeBias(40, 20, 25, false)
	require.NoError(t, err)

	if oneSided.CumProb <= 0.5 {
		t.Errorf("one-sided lower tail above the mean should exceed 0.5, got %v", oneSided.CumProb)
	}
	if flipped.CumProb >= 0.5 {
		t.Errorf("flipped upper tail above the mean should be below 0.5, got %v", flipped.CumProb)
	}

	// By symmetry of Binomial(40, 0.5), P(X >= 25) equals P(X <= 15)
	mirror, err := ComputeBias(40, 20, 15, true)
	require.NoError(t, err)
	assert.InDelta(t, mirror.CumProb, flipped.CumProb, 1e-9)

	// Below the expected count both policies agree
	lowOne, err := ComputeBias(40, 20, 13, true)
	require.NoError(t, err)
	lowFlip, err := ComputeBias(40, 20, 13, false)
	require.NoError(t, err)
	assert.Equal(t, lowOne.CumProb, lowFlip.CumProb)
}

// TestConfidenceInterval checks the 2-sigma Gaussian approximation bounds
func TestConfidenceInterval(t *testing.T) {
	res, err := ComputeBias(10, 5, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	// mean 5, sd sqrt(2.5): ceil(5-3.162)=2, floor(5+3.162)=8
	if res.ExpectedLow != 2 || res.ExpectedHigh != 8 {
		t.Errorf("expected CI [2, 8], got [%d, %d]", res.ExpectedLow, res.ExpectedHigh)
	}

	res, err = ComputeBias(12, 2, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	// mean 2, sd 1.291: lower bound clips at 0
	if res.ExpectedLow != 0 || res.ExpectedHigh != 4 {
		t.Errorf("expected CI [0, 4], got [%d, %d]", res.ExpectedLow, res.ExpectedHigh)
	}
}

// TestResultMetadata checks the audit fields attached to every result
func TestResultMetadata(t *testing.T) {
	a, err := ComputeBias(10, 5, 2, true)
	require.NoError(t, err)
	b, err := ComputeBias(10, 5, 2, true)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "every computation gets its own ID")
	assert.Equal(t, a.Fingerprint, b.Fingerprint, "identical inputs share a fingerprint")
	assert.False(t, a.ComputedAt.IsZero())
}

// TestConfiguredTrialsLimit verifies a caller-supplied trials ceiling is
// enforced by the calculator, not just the compile-time default
func TestConfiguredTrialsLimit(t *testing.T) {
	calc := NewCalculatorWithLimit(10)

	_, err := calc.Compute(NewInput(100, 50, 20))
	if err != core.ErrTrialsExceedLimit {
		t.Errorf("n above the configured ceiling should be rejected, got %v", err)
	}

	if _, err := calc.Compute(NewInput(10, 5, 2)); err != nil {
		t.Errorf("n at the configured ceiling should compute: %v", err)
	}

	// A non-positive limit falls back to the default ceiling
	fallback := NewCalculatorWithLimit(0)
	if _, err := fallback.Compute(NewInput(100, 50, 20)); err != nil {
		t.Errorf("fallback ceiling should accept n=100: %v", err)
	}
}

// TestConcurrentCompute verifies the calculator is safe for concurrent callers
func TestConcurrentCompute(t *testing.T) {
	calc := NewCalculator()
	done := make(chan error, 16)

	for i := 0; i < 16; i++ {
		go func(actual float64) {
			_, err := calc.Compute(NewInput(40, 20, actual))
			done <- err
		}(float64(i))
	}

	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent compute failed: %v", err)
		}
	}
}
