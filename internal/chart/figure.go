package chart

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure stacks panels vertically in one image.
type Figure struct {
	Panels []*Panel
	Width  vg.Length
	Height vg.Length
}

// NewFigure creates a figure of the given size in inches.
func NewFigure(widthIn, heightIn float64, panels ...*Panel) *Figure {
	return &Figure{
		Panels: panels,
		Width:  vg.Length(widthIn) * vg.Inch,
		Height: vg.Length(heightIn) * vg.Inch,
	}
}

// Render draws the figure as PNG to w.
func (f *Figure) Render(w io.Writer) error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("figure has no panels")
	}

	plots := make([][]*plot.Plot, len(f.Panels))
	for i, p := range f.Panels {
		plt, err := p.Plot()
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{plt}
	}

	img := vgimg.New(f.Width, f.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(18),
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}
	return nil
}

// Save renders the figure to a PNG file at path.
func (f *Figure) Save(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return f.Render(file)
}
