// Package sheets reads team rosters from a Google spreadsheet over the
// Sheets REST API (v4) using an API key. Each worksheet is one source.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/JonMunkholm/teamroster/internal/core"
)

// DefaultBaseURL is the public Sheets API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// DefaultColumns is the A1 column span fetched from every worksheet.
const DefaultColumns = "A:Z"

// maxBody bounds a single API response.
const maxBody = 16 << 20

// Client is a TabularSource over one spreadsheet.
type Client struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	Columns       string
	HTTP          *http.Client
}

// New creates a Client. An empty baseURL selects DefaultBaseURL.
func New(baseURL, spreadsheetID, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		Columns:       DefaultColumns,
		HTTP:          &http.Client{Timeout: 20 * time.Second},
	}
}

// Catalog lists worksheet titles in spreadsheet order.
func (c *Client) Catalog(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/v4/spreadsheets/"+url.PathEscape(c.SpreadsheetID), url.Values{
		"fields": {"sheets.properties.title"},
	})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: spreadsheet metadata is not valid JSON", core.ErrSourceMalformed)
	}

	titles := gjson.GetBytes(body, "sheets.#.properties.title")
	names := make([]string, 0, len(titles.Array()))
	for _, t := range titles.Array() {
		names = append(names, t.String())
	}
	return names, nil
}

// Values fetches the formatted cell grid of one worksheet. Row 0 is the
// header row. A worksheet with no data yields an empty grid.
func (c *Client) Values(ctx context.Context, source string) ([][]string, error) {
	rng := quoteSheet(source) + "!" + c.columns()
	body, err := c.get(ctx, "/v4/spreadsheets/"+url.PathEscape(c.SpreadsheetID)+"/values/"+url.PathEscape(rng), nil)
	if err != nil {
		return nil, err
	}
	return parseValues(body)
}

func (c *Client) columns() string {
	if c.Columns == "" {
		return DefaultColumns
	}
	return c.Columns
}

// parseValues decodes a ValueRange document.
func parseValues(body []byte) ([][]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: value range is not valid JSON", core.ErrSourceMalformed)
	}

	values := gjson.GetBytes(body, "values")
	if !values.Exists() {
		return [][]string{}, nil
	}
	if !values.IsArray() {
		return nil, fmt.Errorf("%w: values is %s, want array", core.ErrSourceMalformed, values.Type)
	}

	var grid [][]string
	var bad error
	values.ForEach(func(_, row gjson.Result) bool {
		if !row.IsArray() {
			bad = fmt.Errorf("%w: row %d is %s, want array", core.ErrSourceMalformed, len(grid), row.Type)
			return false
		}
		cells := row.Array()
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = cell.String()
		}
		grid = append(grid, out)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	if grid == nil {
		grid = [][]string{}
	}
	return grid, nil
}

// quoteSheet wraps a worksheet title in single quotes for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", core.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, redactKey(err, c.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", core.ErrSourceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrSourceUnavailable, resp.StatusCode, msg)
	}
	return body, nil
}

// redactKey removes the API key from transport errors, which embed the
// request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, "[redacted]", urlErr.Err)
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "[redacted]"))
}
