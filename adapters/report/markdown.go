package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gobias/domain/bias"
)

// Thresholds for interpreting the future probability, following the paper's
// guidance: values much less than 1 imply bias, below 0.1 is cause for
// serious concern, below 0.01 should provoke urgent action.
const (
	seriousConcernThreshold = 0.1
	urgentActionThreshold   = 0.01
)

// Generator renders a bias result as a markdown summary and as HTML
type Generator struct{}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Markdown produces the summary report in markdown
func (g *Generator) Markdown(res *bias.Result) string {
	var b strings.Builder

	b.WriteString("# Binomial bias assessment\n\n")
	fmt.Fprintf(&b, "Total appointments n = %d, expected %s, actual %s.\n\n",
		res.N, formatCount(res.ExpectedCount), formatCount(res.ActualCount))

	b.WriteString("| Measure | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Preference ratio (bias) | %s |\n", FormatBias(res))
	fmt.Fprintf(&b, "| Cumulative probability | %s |\n", Sigfig(res.CumProb, 2))
	fmt.Fprintf(&b, "| 95%% CI for a fair process | [%d, %d] |\n", res.ExpectedLow, res.ExpectedHigh)
	fmt.Fprintf(&b, "| Future probability | %s |\n", Sigfig(res.PFuture, 2))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", Interpretation(res))
	return b.String()
}

// HTML produces the summary report rendered to HTML
func (g *Generator) HTML(res *bias.Result) []byte {
	md := []byte(g.Markdown(res))
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

// Interpretation maps the future probability onto the paper's guidance bands
func Interpretation(res *bias.Result) string {
	switch {
	case res.PFuture < urgentActionThreshold:
		return fmt.Sprintf("A repeat selection at the observed proportion would look fair "+
			"with probability %s. This should provoke urgent action.", Sigfig(res.PFuture, 2))
	case res.PFuture < seriousConcernThreshold:
		return fmt.Sprintf("A repeat selection at the observed proportion would look fair "+
			"with probability %s. This is cause for serious concern.", Sigfig(res.PFuture, 2))
	default:
		return fmt.Sprintf("A repeat selection at the observed proportion would look fair "+
			"with probability %s.", Sigfig(res.PFuture, 2))
	}
}

// FormatBias renders the preference ratio, using the infinity sign for the
// zero-actual sentinel.
func FormatBias(res *bias.Result) string {
	if res.BiasUnbounded() {
		return "∞"
	}
	return fmt.Sprintf("%.3f", float64(res.Bias))
}

// Sigfig formats a value to the given number of significant figures
func Sigfig(v float64, digits int) string {
	return fmt.Sprintf("%.*g", digits, v)
}

// formatCount renders a normalized count, dropping the fraction when whole
func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
