// Package chart renders rolling-average daily case lines for a set of regions.
//
// Rendering is split in two steps. Prepare turns a dataset into a Panel: the
// plotted points and the x window, derived only from the data. Panel.Plot and
// Figure then lay that out with gonum/plot. The x window always ends at the
// dataset's last report date, so it never depends on plotting state.
package chart

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/plot/plotter"

	"github.com/rewired-gh/covidtrend/internal/models"
	"github.com/rewired-gh/covidtrend/internal/transform"
)

// Options control how a panel is derived from a dataset.
type Options struct {
	WindowDays    int // trailing x range, in days, ending at the last date
	RollingWindow int // rolling mean window, in days
}

// DefaultOptions shows the last 17 weeks of 7-day averages.
func DefaultOptions() Options {
	return Options{
		WindowDays:    7 * 17,
		RollingWindow: transform.DefaultWindow,
	}
}

// Line is one region's plotted points. X is Unix seconds, Y is the rolling
// mean of daily deltas.
type Line struct {
	Region string
	Points plotter.XYs
}

// Panel is everything needed to draw one chart.
type Panel struct {
	Title    string
	LogScale bool
	XMin     time.Time
	XMax     time.Time
	Lines    []Line
}

// Prepare computes the lines for regions of ds. A non-empty title gets a
// rolling-window suffix. Undefined averages and points before the window are
// omitted, as are non-positive points on a log scale.
func Prepare(ds *models.Dataset, regions []string, title string, logscale bool, opts Options) (*Panel, error) {
	if opts.RollingWindow < 1 {
		return nil, fmt.Errorf("invalid rolling window %d: must be positive", opts.RollingWindow)
	}
	if opts.WindowDays < 1 {
		return nil, fmt.Errorf("invalid window %d days: must be positive", opts.WindowDays)
	}

	maxDate, ok := ds.MaxDate()
	if !ok {
		return nil, errors.New("cannot chart a dataset without dates")
	}
	minDate := maxDate.AddDate(0, 0, -opts.WindowDays)

	panel := &Panel{
		LogScale: logscale,
		XMin:     minDate,
		XMax:     maxDate,
		Lines:    make([]Line, 0, len(regions)),
	}
	if title != "" {
		panel.Title = fmt.Sprintf("%s, %d-Day Rolling Avg", title, opts.RollingWindow)
	}

	for _, name := range regions {
		s, err := ds.Region(name)
		if err != nil {
			return nil, fmt.Errorf("failed to chart %s: %w", ds.Name, err)
		}

		avg := transform.RollingDelta(s.Values, opts.RollingWindow)
		var pts plotter.XYs
		for i, v := range avg {
			d := ds.Dates[i]
			if !transform.Defined(v) || d.Before(minDate) {
				continue
			}
			if logscale && v <= 0 {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(d.Unix()), Y: v})
		}
		panel.Lines = append(panel.Lines, Line{Region: name, Points: pts})
	}

	return panel, nil
}
