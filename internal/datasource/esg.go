package datasource

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// ESGChartResponse is the top-level container of the esgChart
// endpoint, the primary ESG source.
type ESGChartResponse struct {
	ESGChart struct {
		Result []ESGChartResult `json:"result"`
		Error  *APIError        `json:"error"`
	} `json:"esgChart"`
}

// ESGChartResult holds the historical total-ESG series plus the
// current component scores.
type ESGChartResult struct {
	SymbolSeries   ESGSeries `json:"symbolSeries"`
	InstrumentInfo struct {
		ESGScores ESGComponentScores `json:"esgScores"`
	} `json:"instrumentInfo"`
}

// ESGSeries is a pair of parallel arrays: one score per timestamp.
type ESGSeries struct {
	Timestamp []int64   `json:"timestamp"`
	ESGScore  []float64 `json:"esgScore"`
}

// ESGComponentScores carries the current component values.
type ESGComponentScores struct {
	TotalESG         RawValue `json:"totalEsg"`
	EnvironmentScore RawValue `json:"environmentScore"`
	SocialScore      RawValue `json:"socialScore"`
	GovernanceScore  RawValue `json:"governanceScore"`
	ControversyLevel RawValue `json:"controversyLevel"`
}

// ESGChart fetches the ESG score series and components for a ticker.
func (c *Client) ESGChart(ctx context.Context, ticker string) (*ESGChartResult, error) {
	params := url.Values{}
	params.Set("symbol", ticker)

	referer := c.pageBaseURL + "/quote/" + ticker + "/sustainability"
	var resp ESGChartResponse
	if err := c.getJSON(ctx, c.apiURL("/v1/finance/esgChart", params), referer, &resp); err != nil {
		return nil, err
	}
	if resp.ESGChart.Error != nil {
		return nil, fetchError("esgChart API error: "+resp.ESGChart.Error.Description, nil)
	}
	if len(resp.ESGChart.Result) == 0 {
		return nil, parseError("esgChart response contains no result", nil)
	}
	return &resp.ESGChart.Result[0], nil
}

// SustainabilityPage fetches the sustainability page for scraping.
// The peer table on this page is rendered client-side, so callers may
// ask for the rendered variant when the static fetch comes back empty.
func (c *Client) SustainabilityPage(ctx context.Context, ticker string, rendered bool) (*goquery.Document, error) {
	path := "/quote/" + url.PathEscape(ticker) + "/sustainability"
	if rendered {
		return c.RenderedPage(ctx, path)
	}
	return c.Page(ctx, path)
}

// FinancialsPage fetches the financials page, which embeds the same
// statement modules the quoteSummary endpoint serves.
func (c *Client) FinancialsPage(ctx context.Context, ticker string) (*goquery.Document, error) {
	return c.Page(ctx, "/quote/"+url.PathEscape(ticker)+"/financials")
}
