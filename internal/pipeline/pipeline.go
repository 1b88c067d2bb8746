// Package pipeline runs one covidtrend batch: load both datasets, derive the
// synthetic regions, print the report tables, render the figure and
// optionally deliver everything to Telegram.
//
// Datasets are passed between steps explicitly; no step mutates a dataset
// another step has already seen.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/covidtrend/internal/chart"
	"github.com/rewired-gh/covidtrend/internal/config"
	"github.com/rewired-gh/covidtrend/internal/jhu"
	"github.com/rewired-gh/covidtrend/internal/logger"
	"github.com/rewired-gh/covidtrend/internal/models"
	"github.com/rewired-gh/covidtrend/internal/regions"
	"github.com/rewired-gh/covidtrend/internal/report"
)

// ChartTitle is the title of the global panel. The US panel has none.
const ChartTitle = "Daily New Cases"

// Fetcher loads a dataset from its source.
type Fetcher interface {
	FetchDataset(ctx context.Context, src jhu.Source) (*models.Dataset, error)
}

// Notifier delivers the report and chart.
type Notifier interface {
	SendReport(tables []*report.Table) error
	SendChart(path, caption string) error
}

// Deps are the collaborators of a run. A nil Notifier disables delivery.
type Deps struct {
	Fetcher  Fetcher
	Notifier Notifier
	Stdout   io.Writer
}

// Result is what a run produced.
type Result struct {
	RunID     string
	Global    *models.Dataset
	US        *models.Dataset
	Tables    []*report.Table
	ChartPath string
}

// Run executes the pipeline once. Any failure aborts the run.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger.WithField("run", res.RunID)
	logger.Info("Starting run")

	global, err := loadGlobal(ctx, cfg, deps.Fetcher)
	if err != nil {
		return nil, err
	}
	res.Global = global

	us, err := loadUS(ctx, cfg, deps.Fetcher)
	if err != nil {
		return nil, err
	}
	res.US = us

	for _, t := range []struct {
		ds      *models.Dataset
		regions []string
	}{
		{global, regions.ReportCountries},
		{us, regions.ReportStates},
	} {
		tbl, err := report.Build(t.ds, t.regions, cfg.Report.Days)
		if err != nil {
			return nil, err
		}
		res.Tables = append(res.Tables, tbl)
	}
	if err := printTables(deps.Stdout, res.Tables); err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}

	opts := chart.Options{
		WindowDays:    cfg.Chart.WindowDays,
		RollingWindow: cfg.Chart.RollingWindow,
	}
	top, err := chart.Prepare(global, regions.ReportCountries, ChartTitle, false, opts)
	if err != nil {
		return nil, err
	}
	bottom, err := chart.Prepare(us, regions.ReportStates, "", false, opts)
	if err != nil {
		return nil, err
	}

	fig := chart.NewFigure(cfg.Chart.Width, cfg.Chart.Height, top, bottom)
	if err := fig.Save(cfg.Chart.Output); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	res.ChartPath = cfg.Chart.Output
	logger.Info("Chart written to %s", cfg.Chart.Output)

	if deps.Notifier != nil {
		logger.Debug("Sending report and chart to Telegram")
		if err := deps.Notifier.SendReport(res.Tables); err != nil {
			logger.Error("Failed to send report to Telegram: %v", err)
			return nil, fmt.Errorf("failed to send report: %w", err)
		}
		if err := deps.Notifier.SendChart(res.ChartPath, top.Title); err != nil {
			logger.Error("Failed to send chart to Telegram: %v", err)
			return nil, fmt.Errorf("failed to send chart: %w", err)
		}
		logger.Info("Sent report and chart to Telegram")
	}

	logger.Info("Run completed in %v", time.Since(start))
	return res, nil
}

// loadGlobal fetches the global dataset and adds the EU+UK region.
func loadGlobal(ctx context.Context, cfg *config.Config, f Fetcher) (*models.Dataset, error) {
	ds, err := f.FetchDataset(ctx, jhu.GlobalConfirmed(cfg.Source.GlobalURL))
	if err != nil {
		return nil, err
	}
	return regions.AddSum(ds, regions.EUPlusUKName, regions.EUPlusUK)
}

// loadUS fetches the US dataset and adds the national total.
func loadUS(ctx context.Context, cfg *config.Config, f Fetcher) (*models.Dataset, error) {
	ds, err := f.FetchDataset(ctx, jhu.USConfirmed(cfg.Source.USURL))
	if err != nil {
		return nil, err
	}
	return regions.AddTotal(ds, regions.USTotalName)
}

func printTables(w io.Writer, tables []*report.Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := t.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
