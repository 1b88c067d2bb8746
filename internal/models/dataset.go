// Package models defines the core domain types for covidtrend.
// A Dataset holds cumulative confirmed-case counts for a set of regions that
// share one ordered sequence of report dates.
//
// Datasets are values: operations that add regions return a new Dataset and
// leave the receiver untouched, so a loaded dataset can be threaded through
// the pipeline without hidden mutation.
package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrRegionNotFound is returned when a lookup names a region the dataset does not hold.
	ErrRegionNotFound = errors.New("region not found")
	// ErrDuplicateRegion is returned when a region is added under a name that already exists.
	ErrDuplicateRegion = errors.New("region already exists")
)

// Series is the cumulative count time series for one region.
// Values[i] is the count reported on the owning dataset's Dates[i].
// Values must be treated as read-only once the series is part of a dataset.
type Series struct {
	Region string    `json:"region"`
	Values []float64 `json:"values"`
}

// Dataset maps region names to series over a shared date axis.
type Dataset struct {
	Name   string
	Dates  []time.Time
	series map[string]Series
}

// NewDataset builds a dataset from dates and series. It fails if any series
// length differs from the date count, if dates are not strictly increasing,
// or if a region name appears twice.
func NewDataset(name string, dates []time.Time, series []Series) (*Dataset, error) {
	ds := &Dataset{
		Name:   name,
		Dates:  dates,
		series: make(map[string]Series, len(series)),
	}
	for _, s := range series {
		if _, exists := ds.series[s.Region]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, s.Region)
		}
		ds.series[s.Region] = s
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks the dataset invariants.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return errors.New("dataset name must not be empty")
	}
	for i := 1; i < len(d.Dates); i++ {
		if !d.Dates[i].After(d.Dates[i-1]) {
			return fmt.Errorf("dataset %s: dates must be strictly increasing (%s after %s)",
				d.Name, d.Dates[i].Format("2006-01-02"), d.Dates[i-1].Format("2006-01-02"))
		}
	}
	for name, s := range d.series {
		if name == "" {
			return fmt.Errorf("dataset %s: region name must not be empty", d.Name)
		}
		if len(s.Values) != len(d.Dates) {
			return fmt.Errorf("dataset %s: region %s has %d values for %d dates",
				d.Name, name, len(s.Values), len(d.Dates))
		}
	}
	return nil
}

// Region returns the series stored under name.
func (d *Dataset) Region(name string) (Series, error) {
	s, ok := d.series[name]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q in dataset %s", ErrRegionNotFound, name, d.Name)
	}
	return s, nil
}

// Has reports whether the dataset holds a region called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.series[name]
	return ok
}

// Regions returns all region names in ascending order.
func (d *Dataset) Regions() []string {
	names := make([]string, 0, len(d.series))
	for name := range d.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of regions.
func (d *Dataset) Len() int {
	return len(d.series)
}

// MaxDate returns the last report date. ok is false for an empty date axis.
func (d *Dataset) MaxDate() (t time.Time, ok bool) {
	if len(d.Dates) == 0 {
		return time.Time{}, false
	}
	return d.Dates[len(d.Dates)-1], true
}

// With returns a copy of the dataset that additionally holds s.
// The receiver is not modified.
func (d *Dataset) With(s Series) (*Dataset, error) {
	if d.Has(s.Region) {
		return nil, fmt.Errorf("%w: %q in dataset %s", ErrDuplicateRegion, s.Region, d.Name)
	}
	if len(s.Values) != len(d.Dates) {
		return nil, fmt.Errorf("dataset %s: region %s has %d values for %d dates",
			d.Name, s.Region, len(s.Values), len(d.Dates))
	}

	next := &Dataset{
		Name:   d.Name,
		Dates:  d.Dates,
		series: make(map[string]Series, len(d.series)+1),
	}
	for name, existing := range d.series {
		next.series[name] = existing
	}
	next.series[s.Region] = s
	return next, nil
}
