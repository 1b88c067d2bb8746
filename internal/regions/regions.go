// Package regions holds the compiled-in region lists and derives synthetic
// regions by summing existing ones.
package regions

import (
	"fmt"

	"github.com/rewired-gh/covidtrend/internal/models"
)

const (
	// EUPlusUKName is the synthetic global region summing EUPlusUK.
	EUPlusUKName = "EU+UK"
	// USTotalName is the synthetic US region summing every state row.
	USTotalName = "United States"
)

// EUPlusUK lists the 27 EU member states plus the United Kingdom, spelled as
// in the global confirmed-cases dataset.
var EUPlusUK = []string{
	"Austria", "Belgium", "Bulgaria", "Croatia", "Cyprus", "Czechia", "Denmark",
	"Estonia", "Finland", "France", "Germany", "Greece", "Hungary", "Ireland",
	"Italy", "Latvia", "Lithuania", "Luxembourg", "Malta", "Netherlands", "Poland",
	"Portugal", "Romania", "Slovakia", "Slovenia", "Spain", "Sweden", "United Kingdom",
}

// ReportCountries are the global regions reported and charted.
var ReportCountries = []string{EUPlusUKName, "US"}

// ReportStates are the US states reported and charted.
var ReportStates = []string{"California", "Texas", "Florida", "New York"}

// AddSum returns a copy of ds with a target region equal to the element-wise
// sum of members. Every member must exist; target must not.
func AddSum(ds *models.Dataset, target string, members []string) (*models.Dataset, error) {
	if ds.Has(target) {
		return nil, fmt.Errorf("cannot derive %q: %w", target, models.ErrDuplicateRegion)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("cannot derive %q: no member regions", target)
	}

	total := make([]float64, len(ds.Dates))
	for _, name := range members {
		s, err := ds.Region(name)
		if err != nil {
			return nil, fmt.Errorf("cannot derive %q: %w", target, err)
		}
		for i, v := range s.Values {
			total[i] += v
		}
	}

	return ds.With(models.Series{Region: target, Values: total})
}

// AddTotal returns a copy of ds with a target region summing every region
// currently present. A region already named target is never counted, and its
// presence is an ErrDuplicateRegion.
func AddTotal(ds *models.Dataset, target string) (*models.Dataset, error) {
	var members []string
	for _, name := range ds.Regions() {
		if name != target {
			members = append(members, name)
		}
	}
	return AddSum(ds, target, members)
}
