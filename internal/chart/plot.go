package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

const dayLayout = "2006-01-02"

var gridColor = color.RGBA{R: 0xd4, G: 0xd4, B: 0xd4, A: 0xff}

// Plot builds the gonum plot for the panel.
func (p *Panel) Plot() (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = p.Title

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	plt.Add(grid)

	points := 0
	for i, l := range p.Lines {
		if len(l.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(l.Points)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", l.Region, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		plt.Add(line)
		plt.Legend.Add(l.Region, line)
		points += len(l.Points)
	}
	plt.Legend.Top = true

	plt.X.Min = float64(p.XMin.Unix())
	plt.X.Max = float64(p.XMax.Unix())
	plt.X.Tick.Marker = dateTicks{}
	plt.X.Tick.Label.Rotation = math.Pi / 6
	plt.X.Tick.Label.XAlign = text.XRight
	plt.X.Tick.Label.YAlign = text.YCenter

	if p.LogScale {
		plt.Y.Scale = plot.LogScale{}
		plt.Y.Tick.Marker = thousandsTicks{base: plot.LogTicks{Prec: -1}}
		if points == 0 {
			plt.Y.Min, plt.Y.Max = 1, 10
		}
	} else {
		plt.Y.Tick.Marker = thousandsTicks{base: plot.DefaultTicks{}}
	}

	return plt, nil
}

// dateTicks puts a labelled major tick every 7 days of the month (1, 8, 15,
// 22, 29) and an unlabelled minor tick on every other day.
type dateTicks struct{}

func (dateTicks) Ticks(min, max float64) []plot.Tick {
	if max < min {
		return nil
	}
	start := time.Unix(int64(math.Ceil(min)), 0).UTC()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) {
		day = day.AddDate(0, 0, 1)
	}

	var ticks []plot.Tick
	for ; float64(day.Unix()) <= max; day = day.AddDate(0, 0, 1) {
		t := plot.Tick{Value: float64(day.Unix())}
		if (day.Day()-1)%7 == 0 {
			t.Label = day.Format(dayLayout)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// thousandsTicks keeps the major ticks of base and labels them with
// thousands separators. Minor ticks are dropped.
type thousandsTicks struct {
	base plot.Ticker
}

func (t thousandsTicks) Ticks(min, max float64) []plot.Tick {
	p := message.NewPrinter(language.English)

	var ticks []plot.Tick
	for _, tk := range t.base.Ticks(min, max) {
		if tk.Label == "" {
			continue
		}
		tk.Label = p.Sprint(number.Decimal(tk.Value, number.MaxFractionDigits(0)))
		ticks = append(ticks, tk)
	}
	return ticks
}
