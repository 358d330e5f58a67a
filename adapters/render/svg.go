package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/montanaflynn/stats"

	"gobias/domain/bias"
	"gobias/internal/errors"
)

// Renderer draws the two-panel bias chart as a standalone SVG document:
// panel (a) is the fair-process distribution with the cumulative tail shaded
// and the 95% CI marked, panel (b) is the resample distribution at the
// observed proportion with the fair CI region shaded.
type Renderer struct {
	width       int
	panelHeight int
	margin      int
}

// NewRenderer creates a renderer with the default figure geometry
func NewRenderer() *Renderer {
	return &Renderer{width: 720, panelHeight: 240, margin: 48}
}

type panel struct {
	Label      string
	YAxisLabel string
	XAxisLabel string
	Curve      string
	Shade      string
	Marker     string
	CILow      string
	CIHigh     string
	Annotation string
	AnnX       float64
	AnnY       float64
	OffsetY    int
}

type figure struct {
	Width  int
	Height int
	Panels []panel
}

var figureTemplate = template.Must(template.New("figure").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif" font-size="12">
<rect width="{{.Width}}" height="{{.Height}}" fill="white"/>
{{- range .Panels}}
<g transform="translate(0,{{.OffsetY}})">
<text x="12" y="20" font-size="14">{{.Label}}</text>
<text x="6" y="130" transform="rotate(-90 12 130)">{{.YAxisLabel}}</text>
<polygon points="{{.Shade}}" fill="{{if eq .Label "(a)"}}#d62728{{else}}#1f77b4{{end}}" fill-opacity="0.45"/>
<polyline points="{{.Curve}}" fill="none" stroke="black" stroke-width="1.5"/>
{{.Marker}}
{{.CILow}}
{{.CIHigh}}
<text x="700" y="234" text-anchor="end">{{.XAxisLabel}}</text>
<text x="{{.AnnX}}" y="{{.AnnY}}" fill="{{if eq .Label "(a)"}}#d62728{{else}}#1f77b4{{end}}" text-anchor="middle">{{.Annotation}}</text>
</g>
{{- end}}
</svg>
`))

// RenderSVG renders the two-panel chart for a computed result
func (r *Renderer) RenderSVG(res *bias.Result) ([]byte, error) {
	if len(res.ExpectedPMF) != res.N+1 || len(res.ActualPMF) != res.N+1 {
		return nil, errors.RenderError("result pmf arrays do not span the support")
	}

	top, err := r.expectedPanel(res)
	if err != nil {
		return nil, err
	}
	bottom, err := r.resamplePanel(res)
	if err != nil {
		return nil, err
	}
	bottom.OffsetY = r.panelHeight + r.margin

	var buf bytes.Buffer
	fig := figure{
		Width:  r.width,
		Height: 2*r.panelHeight + 2*r.margin,
		Panels: []panel{top, bottom},
	}
	if err := figureTemplate.Execute(&buf, fig); err != nil {
		return nil, errors.Wrap(err, "figure template execution failed")
	}
	return buf.Bytes(), nil
}

// expectedPanel builds panel (a): the fair-process distribution
func (r *Renderer) expectedPanel(res *bias.Result) (panel, error) {
	sx, sy, err := r.scales(res.N, res.ExpectedPMF)
	if err != nil {
		return panel{}, err
	}

	// Shade the tail on the side the actual count falls; one panel serves
	// both tail policies because the shaded side tracks the reported sum.
	lowerTail := res.ActualCount <= res.ExpectedCount
	shadeFrom, shadeTo := 0, int(res.ActualCount)
	annX := float64(res.N)/8 + 0.5
	if !lowerTail {
		shadeFrom, shadeTo = int(res.ActualCount), res.N
		annX = 3 * float64(res.N) / 4
	}

	return panel{
		Label:      "(a)",
		YAxisLabel: "P_F(r)",
		XAxisLabel: "r",
		Curve:      polyline(res.ExpectedPMF, sx, sy),
		Shade:      areaPolygon(res.ExpectedPMF, shadeFrom, shadeTo, sx, sy),
		Marker:     verticalLine(res.ActualCount, res.ExpectedPMF, sx, sy, "#d62728"),
		CILow:      verticalLine(float64(res.ExpectedLow), res.ExpectedPMF, sx, sy, "#1f77b4"),
		CIHigh:     verticalLine(float64(res.ExpectedHigh), res.ExpectedPMF, sx, sy, "#1f77b4"),
		Annotation: fmt.Sprintf("cdf(r_a) = %.2g", res.CumProb),
		AnnX:       sx(annX),
		AnnY:       sy(0) - 120,
		OffsetY:    0,
	}, nil
}

// resamplePanel builds panel (b): the distribution a repeat selection at the
// observed proportion would follow, with the fair CI region shaded
func (r *Renderer) resamplePanel(res *bias.Result) (panel, error) {
	sx, sy, err := r.scales(res.N, res.ActualPMF)
	if err != nil {
		return panel{}, err
	}

	annX := 5 * float64(res.N) / 8
	if res.ActualCount >= float64(res.N)/2 {
		annX = float64(res.N) / 4
	}

	return panel{
		Label:      "(b)",
		YAxisLabel: "P_S(R)",
		XAxisLabel: "R",
		Curve:      polyline(res.ActualPMF, sx, sy),
		Shade:      areaPolygon(res.ActualPMF, res.ExpectedLow, res.ExpectedHigh, sx, sy),
		Marker:     verticalLine(res.ActualCount, res.ActualPMF, sx, sy, "#d62728"),
		CILow:      verticalLine(float64(res.ActualLow), res.ActualPMF, sx, sy, "#7f7f7f"),
		CIHigh:     verticalLine(float64(res.ActualHigh), res.ActualPMF, sx, sy, "#7f7f7f"),
		Annotation: fmt.Sprintf("U = %.2g", res.PFuture),
		AnnX:       sx(annX),
		AnnY:       sy(0) - 120,
		OffsetY:    0,
	}, nil
}

// scales returns the x and y pixel mappings for one panel
func (r *Renderer) scales(n int, pmf []float64) (func(float64) float64, func(float64) float64, error) {
	yMax, err := stats.Max(stats.Float64Data(pmf))
	if err != nil {
		return nil, nil, errors.Wrap(err, "pmf maximum")
	}
	if yMax <= 0 {
		return nil, nil, errors.RenderError("pmf carries no mass")
	}

	plotW := float64(r.width - 2*r.margin)
	plotH := float64(r.panelHeight - r.margin)

	sx := func(x float64) float64 {
		return float64(r.margin) + x/float64(n)*plotW
	}
	sy := func(y float64) float64 {
		// 1.25 headroom keeps the CI bracket above the curve peak
		return float64(r.margin) + plotH - y/(1.25*yMax)*plotH
	}
	return sx, sy, nil
}

// polyline renders the pmf curve as an SVG point list
func polyline(pmf []float64, sx, sy func(float64) float64) string {
	var b strings.Builder
	for k, p := range pmf {
		fmt.Fprintf(&b, "%.1f,%.1f ", sx(float64(k)), sy(p))
	}
	return strings.TrimSpace(b.String())
}

// areaPolygon renders the shaded region between the curve and the axis over
// the inclusive support range [from, to]
func areaPolygon(pmf []float64, from, to int, sx, sy func(float64) float64) string {
	if from < 0 {
		from = 0
	}
	if to > len(pmf)-1 {
		to = len(pmf) - 1
	}
	if to < from {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f,%.1f ", sx(float64(from)), sy(0))
	for k := from; k <= to; k++ {
		fmt.Fprintf(&b, "%.1f,%.1f ", sx(float64(k)), sy(pmf[k]))
	}
	fmt.Fprintf(&b, "%.1f,%.1f", sx(float64(to)), sy(0))
	return b.String()
}

// verticalLine draws a marker from the axis up to the curve at support x
func verticalLine(x float64, pmf []float64, sx, sy func(float64) float64, color string) string {
	k := int(x)
	if k < 0 {
		k = 0
	}
	if k > len(pmf)-1 {
		k = len(pmf) - 1
	}
	return fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`,
		sx(x), sy(0), sx(x), sy(pmf[k]), color)
}
