package jhu

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rewired-gh/covidtrend/internal/logger"
	"github.com/rewired-gh/covidtrend/internal/models"
)

// DateLayout is the upstream header format for date columns.
const DateLayout = "1/2/06"

// ParseDataset reads a CSV in the layout described by src and returns one
// cumulative series per region, summed over sub-regions.
func ParseDataset(r io.Reader, src Source) (*models.Dataset, error) {
	types := map[string]series.Type{src.RegionColumn: series.String}
	for _, c := range src.DropColumns {
		types[c] = series.String
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}

	if len(src.DropColumns) > 0 {
		df = df.Drop(src.DropColumns)
		if df.Err != nil {
			return nil, fmt.Errorf("failed to drop identifier columns: %w", df.Err)
		}
	}

	dateCols, dates, err := dateColumns(df.Names(), src.RegionColumn)
	if err != nil {
		return nil, err
	}
	if len(dateCols) == 0 {
		return nil, errors.New("no date columns found")
	}

	// Blank cells count as zero when summing sub-regions.
	blanks := 0
	df = df.Capply(func(s series.Series) series.Series {
		if s.Type() != series.Float {
			return s
		}
		vals := s.Float()
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = 0
				blanks++
			}
		}
		return series.New(vals, series.Float, s.Name)
	})
	if df.Err != nil {
		return nil, fmt.Errorf("failed to fill blank cells: %w", df.Err)
	}
	if blanks > 0 {
		logger.Warn("%s dataset: %d blank cells counted as zero", src.Name, blanks)
	}

	// gota re-parses group values when it builds groups, so a region named
	// like a missing value ("NA", "NaN") would be lost. Group on opaque keys.
	keys, regionOf := regionKeys(df.Col(src.RegionColumn).Records())
	df = df.Mutate(series.New(keys, series.String, src.RegionColumn))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to key %s: %w", src.RegionColumn, df.Err)
	}

	groups := df.GroupBy(src.RegionColumn)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", src.RegionColumn, groups.Err)
	}

	typs := make([]dataframe.AggregationType, len(dateCols))
	for i := range typs {
		typs[i] = dataframe.Aggregation_SUM
	}
	agg := groups.Aggregation(typs, dateCols)
	if agg.Err != nil {
		return nil, fmt.Errorf("failed to sum %s groups: %w", src.RegionColumn, agg.Err)
	}

	names := agg.Col(src.RegionColumn).Records()
	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(dateCols))
	}
	for j, c := range dateCols {
		col := agg.Col(sumColumn(c))
		if col.Err != nil {
			return nil, fmt.Errorf("missing summed column for %s: %w", c, col.Err)
		}
		for i, v := range col.Float() {
			values[i][j] = v
		}
	}

	regions := make([]models.Series, len(names))
	for i, key := range names {
		regions[i] = models.Series{Region: regionOf[key], Values: values[i]}
	}

	return models.NewDataset(src.Name, dates, regions)
}

// dateColumns returns every column except the region column, checking that
// each one is a report date.
func dateColumns(names []string, regionColumn string) ([]string, []time.Time, error) {
	found := false
	var cols []string
	var dates []time.Time
	for _, name := range names {
		if name == regionColumn {
			found = true
			continue
		}
		d, err := time.Parse(DateLayout, name)
		if err != nil {
			return nil, nil, fmt.Errorf("unexpected column %q: %w", name, err)
		}
		cols = append(cols, name)
		dates = append(dates, d)
	}
	if !found {
		return nil, nil, fmt.Errorf("missing region column %q", regionColumn)
	}
	return cols, dates, nil
}

// regionKeys assigns each distinct region name a key of the form "region<n>"
// and returns the per-row keys with the key-to-name mapping.
func regionKeys(names []string) ([]string, map[string]string) {
	keyOf := make(map[string]string)
	regionOf := make(map[string]string)
	keys := make([]string, len(names))
	for i, name := range names {
		k, ok := keyOf[name]
		if !ok {
			k = fmt.Sprintf("region%d", len(keyOf))
			keyOf[name] = k
			regionOf[k] = name
		}
		keys[i] = k
	}
	return keys, regionOf
}

// sumColumn is the name gota gives a column after SUM aggregation.
func sumColumn(name string) string {
	return fmt.Sprintf("%s_%s", name, dataframe.Aggregation_SUM)
}
