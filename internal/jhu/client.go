// Package jhu loads the JHU CSSE confirmed-case time series.
//
// The upstream CSVs have a handful of identifier columns followed by one
// column per report date (header "M/D/YY"), one row per sub-region. Loading a
// source drops the identifier columns that are not needed, groups the rows by
// region and sums every date column, yielding one cumulative series per region.
package jhu

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rewired-gh/covidtrend/internal/logger"
	"github.com/rewired-gh/covidtrend/internal/models"
)

// Client downloads dataset CSVs over HTTP.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client. A zero timeout means requests never time out.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// FetchDataset downloads src and reshapes it into a Dataset.
func (c *Client) FetchDataset(ctx context.Context, src Source) (*models.Dataset, error) {
	start := time.Now()
	logger.Debug("Fetching %s dataset from %s", src.Name, src.URL)

	resp, err := c.doRequest(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s dataset: %w", src.Name, err)
	}
	defer resp.Body.Close()

	ds, err := ParseDataset(resp.Body, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s dataset: %w", src.Name, err)
	}

	logger.Info("Loaded %s dataset: %d regions, %d dates in %v",
		src.Name, ds.Len(), len(ds.Dates), time.Since(start))
	return ds, nil
}

// doRequest performs a single GET. Failures are returned to the caller as is;
// there is no retry.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return resp, nil
}
