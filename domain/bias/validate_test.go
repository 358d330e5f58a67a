package bias

import (
	"testing"

	"gobias/domain/core"
)

// TestValidateRejects checks each terminal validation failure
func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want error
	}{
		{name: "n_too_small", in: NewInput(1, 1, 0), want: core.ErrTooFewTrials},
		{name: "n_negative", in: NewInput(-3, 1, 0), want: core.ErrTooFewTrials},
		{name: "n_above_limit", in: NewInput(MaxTrials+1, 5, 2), want: core.ErrTrialsExceedLimit},
		{name: "expected_zero", in: NewInput(10, 0, 2), want: core.ErrExpectedTooSmall},
		{name: "expected_equals_n", in: NewInput(10, 10, 2), want: core.ErrExpectedTooLarge},
		{name: "expected_above_n", in: NewInput(10, 12, 2), want: core.ErrExpectedTooLarge},
		{name: "actual_above_n", in: NewInput(10, 5, 11), want: core.ErrActualTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.in)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if err != tc.want {
				t.Errorf("got %v, want %v", err, tc.want)
			}
			if !core.IsValidationError(err) {
				t.Errorf("error %v should satisfy IsValidationError", err)
			}
		})
	}
}

// TestValidateNormalization checks the fraction-vs-count dual representation
func TestValidateNormalization(t *testing.T) {
	// A non-whole value in (0,1) is a fraction of n
	fromFraction, err := Validate(NewInput(10, 0.5, 2))
	if err != nil {
		t.Fatal(err)
	}
	fromCount, err := Validate(NewInput(10, 5, 2))
	if err != nil {
		t.Fatal(err)
	}
	if fromFraction.ExpectedCount != fromCount.ExpectedCount {
		t.Errorf("expected=0.5 and expected=5 must normalize identically: %v vs %v",
			fromFraction.ExpectedCount, fromCount.ExpectedCount)
	}

	// The rule applies to actual independently
	p, err := Validate(NewInput(20, 10, 0.25))
	if err != nil {
		t.Fatal(err)
	}
	if p.ActualCount != 5 {
		t.Errorf("actual=0.25 of n=20 should normalize to 5, got %v", p.ActualCount)
	}

	// Whole values, including 1, are absolute counts by convention
	p, err = Validate(NewInput(10, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if p.ExpectedCount != 1 || p.ActualCount != 1 {
		t.Errorf("value 1 must stay an absolute count, got expected=%v actual=%v",
			p.ExpectedCount, p.ActualCount)
	}

	// Fractions can normalize to non-integer counts
	p, err = Validate(NewInput(38, 0.38, 2))
	if err != nil {
		t.Fatal(err)
	}
	if p.ExpectedCount < 14.43 || p.ExpectedCount > 14.45 {
		t.Errorf("expected=0.38 of n=38 should normalize to 14.44, got %v", p.ExpectedCount)
	}
}

// TestValidateBoundaries checks edge values that must pass
func TestValidateBoundaries(t *testing.T) {
	// actual may be zero and may equal n
	if _, err := Validate(NewInput(10, 5, 0)); err != nil {
		t.Errorf("actual=0 should validate: %v", err)
	}
	if _, err := Validate(NewInput(10, 5, 10)); err != nil {
		t.Errorf("actual=n should validate: %v", err)
	}
	// smallest admissible problem
	if _, err := Validate(NewInput(2, 1, 2)); err != nil {
		t.Errorf("n=2 expected=1 should validate: %v", err)
	}
}
