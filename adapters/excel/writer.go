package excel

import (
	"context"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"gobias/internal/errors"
	"gobias/ports"
)

// WorkbookWriter persists a batch of bias figures as an Excel workbook:
// one summary sheet, then one sheet per figure carrying the dense pmf arrays
// for downstream plotting.
type WorkbookWriter struct{}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

var summaryHeaders = []string{
	"key", "title", "n", "expected", "actual",
	"bias", "cum_prob", "expected_low", "expected_high", "p_future",
}

// WriteWorkbook writes the summary and per-figure sheets to path
func (w *WorkbookWriter) WriteWorkbook(ctx context.Context, path string, figures []ports.Figure) error {
	if len(figures) == 0 {
		return errors.ExportError("no figures to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummarySheet(f, figures); err != nil {
		return err
	}

	for _, fig := range figures {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "workbook write cancelled")
		}
		if err := w.writeFigureSheet(f, fig); err != nil {
			return errors.Wrapf(err, "failed to write sheet for figure %s", fig.Key)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

func (w *WorkbookWriter) writeSummarySheet(f *excelize.File, figures []ports.Figure) error {
	sheet := "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, fig := range figures {
		res := fig.Result

		// Excel has no +Inf cell value; the unbounded sentinel goes out
		// as a label instead.
		biasCell := interface{}(float64(res.Bias))
		if res.BiasUnbounded() {
			biasCell = "inf"
		}

		row := []interface{}{
			fig.Key, fig.Title, res.N, res.ExpectedCount, res.ActualCount,
			biasCell, res.CumProb, res.ExpectedLow, res.ExpectedHigh, res.PFuture,
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *WorkbookWriter) writeFigureSheet(f *excelize.File, fig ports.Figure) error {
	sheet := fig.Key
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"k", "e_pmf", "a_pmf"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	res := fig.Result
	for k := 0; k <= res.N; k++ {
		row := []interface{}{k, sanitize(res.ExpectedPMF[k]), sanitize(res.ActualPMF[k])}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, k+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	cell, _ := excelize.CoordinatesToCellName(5, 1)
	note := fmt.Sprintf("fair CI [%d, %d], fingerprint %s", res.ExpectedLow, res.ExpectedHigh, res.Fingerprint)
	return f.SetCellValue(sheet, cell, note)
}

// sanitize clamps denormal noise so spreadsheet cells stay readable
func sanitize(v float64) float64 {
	if math.Abs(v) < 1e-300 {
		return 0
	}
	return v
}
