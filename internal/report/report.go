// Package report prints the most recent daily deltas for a list of regions.
package report

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rewired-gh/covidtrend/internal/models"
	"github.com/rewired-gh/covidtrend/internal/transform"
)

// Row holds one region's trailing daily deltas.
type Row struct {
	Region string
	Values []float64
}

// Table is the last N daily deltas for regions of one dataset, in the order
// the regions were requested.
type Table struct {
	Dataset string
	Dates   []time.Time
	Rows    []Row
}

// Build computes the last days daily deltas of each region.
// An unknown region is an error.
func Build(ds *models.Dataset, regions []string, days int) (*Table, error) {
	n := len(ds.Dates)
	if days < 0 {
		days = 0
	}
	if days > n {
		days = n
	}

	t := &Table{
		Dataset: ds.Name,
		Dates:   ds.Dates[n-days:],
		Rows:    make([]Row, 0, len(regions)),
	}
	for _, name := range regions {
		s, err := ds.Region(name)
		if err != nil {
			return nil, fmt.Errorf("failed to build report: %w", err)
		}
		t.Rows = append(t.Rows, Row{
			Region: name,
			Values: transform.Last(transform.Delta(s.Values), days),
		})
	}
	return t, nil
}

// WriteTo writes the table as aligned text: one header line of dates, then
// one line per region.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	p := message.NewPrinter(language.English)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, t.Dataset)
	for _, d := range t.Dates {
		fmt.Fprintf(tw, "\t%s", d.Format("2006-01-02"))
	}
	fmt.Fprint(tw, "\t\n")

	for _, row := range t.Rows {
		fmt.Fprint(tw, row.Region)
		for _, v := range row.Values {
			fmt.Fprintf(tw, "\t%s", formatValue(p, v))
		}
		fmt.Fprint(tw, "\t\n")
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}

// String renders the table as WriteTo would.
func (t *Table) String() string {
	var buf bytes.Buffer
	_, _ = t.WriteTo(&buf)
	return buf.String()
}

func formatValue(p *message.Printer, v float64) string {
	if !transform.Defined(v) {
		return "NaN"
	}
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}
