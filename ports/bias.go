package ports

import (
	"context"

	"gobias/domain/bias"
)

// CalculatorPort is the single call contract consumed by external
// collaborators (UI layer, CLI scripts, test harness).
type CalculatorPort interface {
	// Compute validates the input and computes all bias measures.
	// Validation failure is terminal with no partial result.
	Compute(in bias.Input) (*bias.Result, error)
}

// RendererPort draws the two-panel chart for a computed result
type RendererPort interface {
	// RenderSVG renders the expected-distribution and resample panels
	RenderSVG(res *bias.Result) ([]byte, error)
}

// ReporterPort renders a result as human-readable text
type ReporterPort interface {
	// Markdown produces the summary report in markdown
	Markdown(res *bias.Result) string

	// HTML produces the summary report rendered to HTML
	HTML(res *bias.Result) []byte
}

// WorkbookWriterPort persists a batch of figure results
type WorkbookWriterPort interface {
	// WriteWorkbook writes a summary sheet plus one pmf sheet per figure
	WriteWorkbook(ctx context.Context, path string, figures []Figure) error
}

// Figure pairs a named scenario with its computed result
type Figure struct {
	Key    string
	Title  string
	Result *bias.Result
}
