package chart

import "gonum.org/v1/plot"

// fixedTicks is a deterministic base ticker for label formatting tests.
type fixedTicks struct{}

func (fixedTicks) Ticks(min, max float64) []plot.Tick {
	return []plot.Tick{
		{Value: 25000},
		{Value: 50000, Label: "50000"},
		{Value: 75000},
		{Value: max, Label: "1e+05"},
	}
}
