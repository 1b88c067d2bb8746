package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/covidtrend/internal/config"
	"github.com/rewired-gh/covidtrend/internal/jhu"
	"github.com/rewired-gh/covidtrend/internal/logger"
	"github.com/rewired-gh/covidtrend/internal/models"
	"github.com/rewired-gh/covidtrend/internal/regions"
	"github.com/rewired-gh/covidtrend/internal/report"
)

const days = 150

func dateHeader() string {
	base := time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)
	cols := make([]string, days)
	for i := range cols {
		cols[i] = base.AddDate(0, 0, i).Format(jhu.DateLayout)
	}
	return strings.Join(cols, ",")
}

// cumulative renders a row of counts growing by perDay.
func cumulative(perDay int) string {
	vals := make([]string, days)
	for i := range vals {
		vals[i] = fmt.Sprint(i * perDay)
	}
	return strings.Join(vals, ",")
}

func globalCSV(countries []string) string {
	var b strings.Builder
	b.WriteString("Province/State,Country/Region,Lat,Long," + dateHeader() + "\n")
	for i, c := range countries {
		fmt.Fprintf(&b, ",%s,0,0,%s\n", c, cumulative(i+1))
	}
	// A second province for the US, merged by the loader.
	fmt.Fprintf(&b, "Somewhere,US,0,0,%s\n", cumulative(100))
	return b.String()
}

func usCSV() string {
	var b strings.Builder
	b.WriteString("UID,iso2,iso3,code3,FIPS,Admin2,Province_State,Country_Region,Lat,Long_,Combined_Key," + dateHeader() + "\n")
	for i, s := range append(append([]string{}, regions.ReportStates...), "Guam") {
		fmt.Fprintf(&b, "%d,US,USA,840,%d.0,County,%s,US,0,0,\"County, %s, US\",%s\n", i, i, s, s, cumulative(10*(i+1)))
	}
	return b.String()
}

func newServer(t *testing.T, global string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/global.csv":
			_, _ = w.Write([]byte(global))
		case "/us.csv":
			_, _ = w.Write([]byte(usCSV()))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srv *httptest.Server) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Source.GlobalURL = srv.URL + "/global.csv"
	cfg.Source.USURL = srv.URL + "/us.csv"
	cfg.Chart.Output = filepath.Join(t.TempDir(), "covidtrend.png")
	require.NoError(t, cfg.Validate())
	return cfg
}

type fakeNotifier struct {
	tables    []*report.Table
	chartPath string
	caption   string
	chartErr  error
}

func (f *fakeNotifier) SendReport(tables []*report.Table) error {
	f.tables = tables
	return nil
}

func (f *fakeNotifier) SendChart(path, caption string) error {
	f.chartPath = path
	f.caption = caption
	return f.chartErr
}

func TestRun(t *testing.T) {
	countries := append(append([]string{}, regions.EUPlusUK...), "US", "Japan")
	srv := newServer(t, globalCSV(countries))
	cfg := testConfig(t, srv)

	var out bytes.Buffer
	notifier := &fakeNotifier{}
	res, err := Run(context.Background(), cfg, Deps{
		Fetcher:  jhu.NewClient(5 * time.Second),
		Notifier: notifier,
		Stdout:   &out,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)

	// EU+UK grows by the sum of 1..28 per day.
	eu, err := res.Global.Region(regions.EUPlusUKName)
	require.NoError(t, err)
	assert.Equal(t, float64((days-1)*28*29/2), eu.Values[days-1])

	// US country row merges two provinces: 29 + 100 per day.
	us, err := res.Global.Region("US")
	require.NoError(t, err)
	assert.Equal(t, float64(129), us.Values[1])

	// The national total sums all five state rows.
	total, err := res.US.Region(regions.USTotalName)
	require.NoError(t, err)
	assert.Equal(t, float64(150), total.Values[1])

	require.Len(t, res.Tables, 2)
	assert.Equal(t, []float64{406, 406, 406, 406, 406, 406, 406}, res.Tables[0].Rows[0].Values)
	assert.Equal(t, "New York", res.Tables[1].Rows[3].Region)

	printed := out.String()
	assert.Contains(t, printed, "EU+UK")
	assert.Contains(t, printed, "California")
	assert.Contains(t, printed, "\n\n")

	info, err := os.Stat(res.ChartPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Len(t, notifier.tables, 2)
	assert.Equal(t, res.ChartPath, notifier.chartPath)
	assert.Equal(t, "Daily New Cases, 7-Day Rolling Avg", notifier.caption)
}

func TestRunMissingEUCountry(t *testing.T) {
	countries := append(append([]string{}, regions.EUPlusUK[1:]...), "US")
	srv := newServer(t, globalCSV(countries))
	cfg := testConfig(t, srv)

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, Deps{
		Fetcher: jhu.NewClient(0),
		Stdout:  &out,
	})
	assert.ErrorIs(t, err, models.ErrRegionNotFound)
	assert.Empty(t, out.String(), "nothing is reported after a failed load")
}

func TestRunFetchFailure(t *testing.T) {
	countries := append(append([]string{}, regions.EUPlusUK...), "US")
	srv := newServer(t, globalCSV(countries))
	cfg := testConfig(t, srv)
	cfg.Source.USURL = srv.URL + "/missing.csv"

	_, err := Run(context.Background(), cfg, Deps{
		Fetcher: jhu.NewClient(0),
		Stdout:  &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRunDeliveryFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger.InitWithOutput("info", "text", &logs)
	defer logger.InitWithOutput("info", "text", os.Stderr)

	countries := append(append([]string{}, regions.EUPlusUK...), "US")
	srv := newServer(t, globalCSV(countries))
	cfg := testConfig(t, srv)

	notifier := &fakeNotifier{chartErr: fmt.Errorf("telegram: chat not found")}
	_, err := Run(context.Background(), cfg, Deps{
		Fetcher:  jhu.NewClient(0),
		Notifier: notifier,
		Stdout:   &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send chart")
	assert.Len(t, notifier.tables, 2, "report is sent before the chart")
	assert.Contains(t, logs.String(), "Failed to send chart to Telegram: telegram: chat not found")
}
