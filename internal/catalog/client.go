// Package catalog fetches tables from the data.world catalog API.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/dgs-kpis/fmd-dashboard/internal/logger"
)

// DefaultBaseURL is the public data.world API endpoint.
const DefaultBaseURL = "https://api.data.world/v0"

// Table names come from config; only plain identifiers are accepted before
// they are spliced into the SQL query.
var identRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Client queries the data.world SQL endpoint for dataset tables.
type Client struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	token      string
	httpClient *http.Client
}

// NewClient creates a catalog client authenticated with an API token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTable retrieves a named table from a named dataset as a raw
// dataframe. All columns are loaded as text; type coercion is the cleaner's
// job.
//
// dataset is the data.world "owner/dataset" pair, e.g.
// "dgs-kpis/fmd-maintenance"; table is the table key within that dataset.
func (c *Client) FetchTable(ctx context.Context, dataset, table string) (dataframe.DataFrame, error) {
	var empty dataframe.DataFrame

	if dataset == "" {
		return empty, fmt.Errorf("dataset name is empty")
	}
	if !identRe.MatchString(table) {
		return empty, fmt.Errorf("invalid table name: %q", table)
	}

	query := url.Values{}
	query.Set("query", "SELECT * FROM "+table)

	endpoint := fmt.Sprintf("%s/sql/%s", c.BaseURL, dataset)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(query.Encode()))
	if err != nil {
		return empty, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return empty, fmt.Errorf("unauthorized: check DATAWORLD_API_TOKEN")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return empty, fmt.Errorf("catalog request failed (status %d): %s", resp.StatusCode, string(body))
	}

	df := dataframe.ReadCSV(resp.Body,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return empty, fmt.Errorf("failed to parse catalog response: %w", df.Err)
	}

	logger.Debug("fetched catalog table", "dataset", dataset, "table", table, "rows", df.Nrow())
	return df, nil
}
