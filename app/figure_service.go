package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"gobias/domain/bias"
	"gobias/internal/errors"
	"gobias/ports"
)

// Scenario is one named figure input
type Scenario struct {
	Key      string
	Title    string
	N        int
	Expected float64
	Actual   float64
}

// PaperScenarios returns the six literal scenarios from the paper
func PaperScenarios() []Scenario {
	return []Scenario{
		{Key: "fig1", Title: "Coin toss", N: 10, Expected: 0.5, Actual: 2},
		{Key: "fig2", Title: "Die roll", N: 12, Expected: 1.0 / 6.0, Actual: 2},
		{Key: "fig3", Title: "Sexism - VC", N: 40, Expected: 0.50, Actual: 13},
		{Key: "fig4", Title: "Racism - VC", N: 40, Expected: 0.50, Actual: 1},
		{Key: "fig5", Title: "Sexism - combined", N: 39, Expected: 0.50, Actual: 19},
		{Key: "fig6", Title: "Racism - combined", N: 38, Expected: 0.38, Actual: 2},
	}
}

// FigureService regenerates figure batches: each scenario is computed and
// rendered to an SVG file, then the whole batch is consolidated into one
// Excel workbook. Scenario work runs concurrently under a weighted
// semaphore so large-n batches cannot exhaust memory.
type FigureService struct {
	calculator ports.CalculatorPort
	renderer   ports.RendererPort
	writer     ports.WorkbookWriterPort
	sem        *semaphore.Weighted
}

// FigureBatchResult summarizes one batch run
type FigureBatchResult struct {
	Figures      []ports.Figure
	SVGPaths     []string
	WorkbookPath string
	RuntimeMs    int64
}

// NewFigureService creates a figure service with bounded concurrency
func NewFigureService(calculator ports.CalculatorPort, renderer ports.RendererPort, writer ports.WorkbookWriterPort, concurrency int64) *FigureService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FigureService{
		calculator: calculator,
		renderer:   renderer,
		writer:     writer,
		sem:        semaphore.NewWeighted(concurrency),
	}
}

// GenerateAll computes and renders every scenario into outputDir and writes
// the consolidated workbook. The batch fails on the first scenario error;
// partially written SVG files are left for inspection.
func (s *FigureService) GenerateAll(ctx context.Context, scenarios []Scenario, outputDir, workbookName string) (*FigureBatchResult, error) {
	startTime := time.Now()

	if len(scenarios) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "no scenarios to generate")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	log.Printf("[FigureService] Generating %d figures into %s", len(scenarios), outputDir)

	figures := make([]ports.Figure, len(scenarios))
	svgPaths := make([]string, len(scenarios))

	var wg sync.WaitGroup
	errCh := make(chan error, len(scenarios))

	for i, sc := range scenarios {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, errors.Wrap(err, "figure batch cancelled")
		}
		wg.Add(1)

		go func(i int, sc Scenario) {
			defer wg.Done()
			defer s.sem.Release(1)

			fig, path, err := s.generateOne(sc, outputDir)
			if err != nil {
				errCh <- errors.Wrapf(err, "figure %s failed", sc.Key)
				return
			}
			figures[i] = fig
			svgPaths[i] = path
		}(i, sc)
	}

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}

	workbookPath := filepath.Join(outputDir, workbookName)
	if err := s.writer.WriteWorkbook(ctx, workbookPath, figures); err != nil {
		return nil, err
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	log.Printf("[FigureService] Batch complete in %dms (workbook: %s)", runtimeMs, workbookPath)

	return &FigureBatchResult{
		Figures:      figures,
		SVGPaths:     svgPaths,
		WorkbookPath: workbookPath,
		RuntimeMs:    runtimeMs,
	}, nil
}

func (s *FigureService) generateOne(sc Scenario, outputDir string) (ports.Figure, string, error) {
	result, err := s.calculator.Compute(bias.NewInput(sc.N, sc.Expected, sc.Actual))
	if err != nil {
		return ports.Figure{}, "", err
	}

	svg, err := s.renderer.RenderSVG(result)
	if err != nil {
		return ports.Figure{}, "", err
	}

	path := filepath.Join(outputDir, fmt.Sprintf("%s.svg", sc.Key))
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return ports.Figure{}, "", errors.Wrapf(err, "failed to write %s", path)
	}

	log.Printf("[FigureService] %s (%s): cum_prob=%.3g p_future=%.3g", sc.Key, sc.Title, result.CumProb, result.PFuture)

	return ports.Figure{Key: sc.Key, Title: sc.Title, Result: result}, path, nil
}
