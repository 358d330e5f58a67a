package bias

import (
	"math"

	"gobias/domain/core"
)

// isFraction reports whether a supplied value is read as a fraction of n
// rather than an absolute count. Only non-whole values strictly between
// 0 and 1 qualify; whole values, including 1, are absolute counts.
func isFraction(v float64) bool {
	return v > 0 && v < 1 && v != math.Floor(v)
}

// normalize converts a dual-representation value to an absolute count
func normalize(v float64, n int) float64 {
	if isFraction(v) {
		return v * float64(n)
	}
	return v
}

// Validate checks an input against the domain constraints and returns the
// normalized parameters. Validation failure is terminal: there is no partial
// result and the caller decides whether to retry with corrected input.
func Validate(in Input) (Params, error) {
	return ValidateWithLimit(in, MaxTrials)
}

// ValidateWithLimit validates with a caller-supplied trials ceiling in place
// of the default.
func ValidateWithLimit(in Input, maxTrials int) (Params, error) {
	if in.N < 2 {
		return Params{}, core.ErrTooFewTrials
	}
	if in.N > maxTrials {
		return Params{}, core.ErrTrialsExceedLimit
	}

	// The fraction rule applies to expected and actual independently
	expected := normalize(in.Expected, in.N)
	actual := normalize(in.Actual, in.N)

	if expected < 1 {
		return Params{}, core.ErrExpectedTooSmall
	}
	if expected >= float64(in.N) {
		return Params{}, core.ErrExpectedTooLarge
	}
	if actual < 0 {
		return Params{}, core.NewValidationError("actual", "must not be negative")
	}
	if actual > float64(in.N) {
		return Params{}, core.ErrActualTooLarge
	}

	return Params{
		N:             in.N,
		ExpectedCount: expected,
		ActualCount:   actual,
		OneSided:      in.OneSided,
	}, nil
}
