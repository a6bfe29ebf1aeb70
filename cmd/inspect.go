package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	app "vision-inspector/internal/application"
	"vision-inspector/internal/container"
	"vision-inspector/internal/domain/entity"
)

var inspectFlags struct {
	threshold float64
	parallel  int
	csvPath   string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Inspect image files and print a report for each",
	Long: `Inspect runs every file through the detector, prints a text report per file
and a quality summary at the end.

Usage:
  vision-inspector inspect part1.jpg part2.png
  vision-inspector inspect --threshold 0.35 --parallel 4 --csv history.csv photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.Float64VarP(&inspectFlags.threshold, "threshold", "t", 0, "Confidence threshold in [0,1] (default: $CONFIDENCE_THRESHOLD)")
	f.IntVarP(&inspectFlags.parallel, "parallel", "p", 1, "Number of files inspected concurrently")
	f.StringVar(&inspectFlags.csvPath, "csv", "", "Write the inspection history as CSV to this path")
}

func runInspect(cmd *cobra.Command, files []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	threshold := cfg.ConfidenceThreshold
	if cmd.Flags().Changed("threshold") {
		threshold = inspectFlags.threshold
	}
	if err := entity.ValidateThreshold(threshold); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	var (
		mu     sync.Mutex
		failed int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(inspectFlags.parallel, 1))
	for _, path := range files {
		path := path
		g.Go(func() error {
			text, err := inspectFile(gCtx, c, path, threshold)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "== %s\nerror: %v\n\n", path, err)
				return nil
			}
			fmt.Fprintf(out, "== %s\n%s\n", path, text)
			return nil
		})
	}
	_ = g.Wait()

	summary, err := c.HistoryService.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Inspected: %d, passed: %d, rejected: %d, failed: %d, pass rate: %.1f%%\n",
		summary.Count, summary.PassCount, summary.RejectCount, failed, summary.PassRate*100)

	if inspectFlags.csvPath != "" {
		data, err := c.HistoryService.ExportCSV(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(inspectFlags.csvPath, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Info("history written", "path", inspectFlags.csvPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// inspectFile инспектирует один файл и возвращает текстовый отчёт
func inspectFile(ctx context.Context, c *container.Container, path string, threshold float64) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	result, err := c.InspectionService.Inspect(ctx, data, filepath.Base(path), threshold)
	if err != nil {
		return "", err
	}
	return app.ExportResult(*result), nil
}
