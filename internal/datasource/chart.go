package datasource

import (
	"context"
	"net/url"
)

// TimeRange is a chart API range token.
type TimeRange string

const (
	Range1d  TimeRange = "1d"
	Range5d  TimeRange = "5d"
	Range1mo TimeRange = "1mo"
	Range1y  TimeRange = "1y"
	Range5y  TimeRange = "5y"
	RangeMax TimeRange = "max"
)

// ChartResponse is the top-level container of the chart endpoint.
type ChartResponse struct {
	Chart ChartData `json:"chart"`
}

type ChartData struct {
	Result []ChartResult `json:"result"`
	Error  *APIError     `json:"error"`
}

// ChartResult carries parallel arrays: one timestamp per bar with the
// OHLCV series under indicators.quote.
type ChartResult struct {
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

type Indicators struct {
	Quote []Quote `json:"quote"`
}

type Quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// APIError is the error object embedded in provider responses.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Chart fetches daily price bars for the given range.
func (c *Client) Chart(ctx context.Context, ticker string, rng TimeRange) (*ChartResult, error) {
	params := url.Values{}
	params.Set("range", string(rng))
	params.Set("interval", "1d")
	params.Set("events", "history")

	var resp ChartResponse
	if err := c.getJSON(ctx, c.apiURL("/v8/finance/chart/"+url.PathEscape(ticker), params), "", &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fetchError("chart API error: "+resp.Chart.Error.Description, nil)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, parseError("chart response contains no result", nil)
	}
	return &resp.Chart.Result[0], nil
}
