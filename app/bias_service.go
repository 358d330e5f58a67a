package app

import (
	"context"
	"time"

	"gobias/domain/bias"
	"gobias/internal/errors"
	"gobias/ports"
)

// BiasService orchestrates a single bias computation for external
// collaborators: validate, compute, and prepare the presentation artifacts
// the caller displays.
type BiasService struct {
	calculator ports.CalculatorPort
	reporter   ports.ReporterPort
	renderer   ports.RendererPort
}

// ComputeRequest defines the inputs for one computation
type ComputeRequest struct {
	N        int
	Expected float64
	Actual   float64
	OneSided bool
}

// ComputeResponse carries the result plus rendered presentation artifacts
type ComputeResponse struct {
	Result     *bias.Result
	ReportHTML []byte
	ChartSVG   []byte
	RuntimeMs  int64
}

// NewBiasService creates a bias service
func NewBiasService(calculator ports.CalculatorPort, reporter ports.ReporterPort, renderer ports.RendererPort) *BiasService {
	return &BiasService{
		calculator: calculator,
		reporter:   reporter,
		renderer:   renderer,
	}
}

// ComputeBias runs one computation and renders its report and chart.
// A validation failure is returned as-is so the caller can surface the
// message and keep its prior displayed state.
func (s *BiasService) ComputeBias(ctx context.Context, req ComputeRequest) (*ComputeResponse, error) {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "computation cancelled")
	}

	result, err := s.calculator.Compute(bias.Input{
		N:        req.N,
		Expected: req.Expected,
		Actual:   req.Actual,
		OneSided: req.OneSided,
	})
	if err != nil {
		return nil, err
	}

	chart, err := s.renderer.RenderSVG(result)
	if err != nil {
		return nil, errors.Wrap(err, "chart rendering failed")
	}

	return &ComputeResponse{
		Result:     result,
		ReportHTML: s.reporter.HTML(result),
		ChartSVG:   chart,
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}, nil
}
