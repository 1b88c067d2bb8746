package jhu

const (
	baseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/" +
		"csse_covid_19_data/csse_covid_19_time_series/"

	// DefaultGlobalURL is the global confirmed-cases CSV.
	DefaultGlobalURL = baseURL + "time_series_covid19_confirmed_global.csv"
	// DefaultUSURL is the US confirmed-cases CSV.
	DefaultUSURL = baseURL + "time_series_covid19_confirmed_US.csv"
)

// Source describes one of the known upstream CSV layouts.
type Source struct {
	Name         string
	URL          string
	RegionColumn string   // rows are grouped and summed by this column
	DropColumns  []string // identifier columns discarded before grouping
}

// GlobalConfirmed is the global-by-country source. Provinces of the same
// country are merged into one row.
func GlobalConfirmed(url string) Source {
	return Source{
		Name:         "global",
		URL:          url,
		RegionColumn: "Country/Region",
		DropColumns:  []string{"Province/State", "Lat", "Long"},
	}
}

// USConfirmed is the US-by-state source. Counties of the same state are
// merged into one row.
func USConfirmed(url string) Source {
	return Source{
		Name:         "US",
		URL:          url,
		RegionColumn: "Province_State",
		DropColumns: []string{
			"UID", "iso2", "iso3", "code3", "FIPS",
			"Admin2", "Country_Region", "Lat", "Long_", "Combined_Key",
		},
	}
}
