package bias

import (
	"encoding/json"
	"math"

	"gobias/domain/core"
)

// MaxTrials caps the number of appointments so the dense pmf arrays stay
// bounded. The computation itself is O(n) with no inherent limit; anything
// above this is conspicuously unreasonable input and fails validation.
const MaxTrials = 1_000_000

// Input holds raw caller-supplied parameters for a bias computation.
// Expected and Actual may each be an absolute count or a fraction of N:
// a value strictly between 0 and 1 that is not a whole number is read as a
// fraction. Whole-valued inputs, including 1, are always absolute counts.
type Input struct {
	N        int     `json:"n"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	OneSided bool    `json:"one_sided"`
}

// NewInput creates an input with the default one-sided tail policy
func NewInput(n int, expected, actual float64) Input {
	return Input{N: n, Expected: expected, Actual: actual, OneSided: true}
}

// Params is a validated input with both fields normalized to absolute counts.
// Fraction-supplied values can normalize to non-integer counts (e.g.
// expected=0.38 of n=38 gives 14.44); the distribution is still evaluated at
// the exact proportion.
type Params struct {
	N             int
	ExpectedCount float64
	ActualCount   float64
	OneSided      bool
}

// FExpected returns the expected proportion of the target group
func (p Params) FExpected() float64 {
	return p.ExpectedCount / float64(p.N)
}

// FActual returns the observed proportion of the target group
func (p Params) FActual() float64 {
	return p.ActualCount / float64(p.N)
}

// Result carries all computed bias measures plus the two pmf arrays needed
// by downstream rendering. It is immutable once computed; recomputation
// requires a new Input.
type Result struct {
	ID          core.ComputationID `json:"id"`
	Fingerprint core.Hash          `json:"fingerprint"`
	ComputedAt  core.Timestamp     `json:"computed_at"`

	N             int     `json:"n"`
	ExpectedCount float64 `json:"expected_count"`
	ActualCount   float64 `json:"actual_count"`
	FExpected     float64 `json:"f_expected"`
	FActual       float64 `json:"f_actual"`

	// Bias is the preference ratio: the complementary group's implied
	// selection odds over the target group's, relative to a fair process.
	// +Inf when ActualCount is zero (sentinel, not an error).
	Bias Ratio `json:"bias"`

	// CumProb is the probability, under the fair distribution, of an outcome
	// at least as extreme as the actual one in the observed direction.
	CumProb float64 `json:"cum_prob"`

	// ExpectedLow/High bound the 95% confidence interval of the fair-process
	// count; ActualLow/High are the same approximation at the observed
	// proportion (rendering support, not a primary metric).
	ExpectedLow  int `json:"expected_low"`
	ExpectedHigh int `json:"expected_high"`
	ActualLow    int `json:"actual_low"`
	ActualHigh   int `json:"actual_high"`

	// PFuture is the chance a fresh sample at the observed proportion lands
	// inside the fair-process confidence interval.
	PFuture float64 `json:"p_future"`

	ExpectedPMF []float64 `json:"e_pmf"`
	ActualPMF   []float64 `json:"a_pmf"`
}

// Ratio is a float64 that encodes the +Inf sentinel as the JSON string "inf"
// instead of failing to marshal.
type Ratio float64

// MarshalJSON encodes finite ratios as numbers and +Inf as "inf"
func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON decodes either a number or the "inf" sentinel
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// BiasUnbounded reports whether the preference ratio is the +Inf sentinel
func (r *Result) BiasUnbounded() bool {
	return math.IsInf(float64(r.Bias), 1)
}
