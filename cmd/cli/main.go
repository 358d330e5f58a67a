package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gobias/adapters/excel"
	"gobias/adapters/render"
	"gobias/adapters/report"
	"gobias/app"
	"gobias/domain/bias"
	"gobias/internal/config"
	"gobias/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobias-cli",
		Short: "Binomial bias calculator for appointment processes",
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newFiguresCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newComputeCmd() *cobra.Command {
	var (
		n        int
		expected float64
		actual   float64
		twoSided bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute bias measures for one scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			calc := bias.NewCalculatorWithLimit(cfg.Limits.MaxTrials)
			result, err := calc.Compute(bias.Input{
				N:        n,
				Expected: expected,
				Actual:   actual,
				OneSided: !twoSided,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Print(report.NewGenerator().Markdown(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 10, "total number of appointments")
	cmd.Flags().Float64Var(&expected, "expected", 5, "expected count (or fraction of n)")
	cmd.Flags().Float64Var(&actual, "actual", 2, "actual count (or fraction of n)")
	cmd.Flags().BoolVar(&twoSided, "flip-tail", false, "flip the cumulative tail above the expected count")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	return cmd
}

func newFiguresCmd() *cobra.Command {
	var (
		outDir   string
		workbook string
		serve    bool
	)

	cmd := &cobra.Command{
		Use:   "figures",
		Short: "Regenerate the paper figures (SVG files plus an Excel workbook)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Figures.OutputDir
			}
			if workbook == "" {
				workbook = cfg.Figures.WorkbookName
			}

			service := app.NewFigureService(
				bias.NewCalculatorWithLimit(cfg.Limits.MaxTrials),
				render.NewRenderer(),
				excel.NewWorkbookWriter(),
				cfg.Figures.Concurrency,
			)

			batch, err := service.GenerateAll(context.Background(), app.PaperScenarios(), outDir, workbook)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d figures and %s\n", len(batch.Figures), batch.WorkbookPath)

			if serve {
				return ui.NewArchiveApp(outDir).Run(cfg.Figures.ArchivePort)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from FIGURES_DIR)")
	cmd.Flags().StringVar(&workbook, "workbook", "", "workbook file name (default from FIGURES_WORKBOOK)")
	cmd.Flags().BoolVar(&serve, "serve", false, "serve the output directory after generation")
	return cmd
}
