package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// RawValue is the provider's {raw, fmt} number wrapper. Some fields
// arrive as bare numbers instead, so unmarshalling accepts both.
type RawValue struct {
	Raw *float64
	Fmt string
}

// UnmarshalJSON accepts {"raw":1.5,"fmt":"1.50"}, a bare number, or a
// bare string. Anything else leaves the value empty.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	// null is a successful no-op for every decode below; catch it
	// before the bare-number branch turns it into a zero.
	if string(data) == "null" {
		return nil
	}

	var obj struct {
		Raw *float64 `json:"raw"`
		Fmt string   `json:"fmt"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Raw != nil || obj.Fmt != "") {
		v.Raw = obj.Raw
		v.Fmt = obj.Fmt
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		v.Raw = &num
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Fmt = s
		return nil
	}

	// Unrecognized shape (empty object, null); treat as missing.
	return nil
}

// AssetProfile is the company-description module.
type AssetProfile struct {
	Sector              string `json:"sector"`
	Industry            string `json:"industry"`
	Website             string `json:"website"`
	City                string `json:"city"`
	Country             string `json:"country"`
	FullTimeEmployees   int64  `json:"fullTimeEmployees"`
	LongBusinessSummary string `json:"longBusinessSummary"`
}

// PriceModule carries the quote names; numeric quote fields come
// through the generic maps instead.
type PriceModule struct {
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
}

// StatementPeriod is one reporting period of any statement: the
// endDate plus every reported line item keyed by the provider's field
// name.
type StatementPeriod map[string]RawValue

// EndDate returns the period end as unix seconds, or nil when absent.
func (p StatementPeriod) EndDate() *float64 {
	if v, ok := p["endDate"]; ok {
		return v.Raw
	}
	return nil
}

// QuoteSummaryResult is the decoded union of requested modules. Only
// requested modules are non-nil.
type QuoteSummaryResult struct {
	AssetProfile         *AssetProfile       `json:"assetProfile"`
	Price                *PriceModule        `json:"price"`
	SummaryDetail        map[string]RawValue `json:"summaryDetail"`
	DefaultKeyStatistics map[string]RawValue `json:"defaultKeyStatistics"`
	FinancialData        map[string]RawValue `json:"financialData"`

	IncomeStatementHistory *struct {
		IncomeStatementHistory []StatementPeriod `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceSheetHistory *struct {
		BalanceSheetStatements []StatementPeriod `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	CashflowStatementHistory *struct {
		CashflowStatements []StatementPeriod `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *APIError            `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummary fetches the requested modules for a ticker. The
// endpoint needs a session crumb; a stale crumb produces a 401, which
// is retried once with a fresh one.
func (c *Client) QuoteSummary(ctx context.Context, ticker string, modules ...string) (*QuoteSummaryResult, error) {
	result, err := c.quoteSummaryOnce(ctx, ticker, modules)
	if statusCode(err) == http.StatusUnauthorized {
		c.invalidateCrumb()
		result, err = c.quoteSummaryOnce(ctx, ticker, modules)
	}
	return result, err
}

func (c *Client) quoteSummaryOnce(ctx context.Context, ticker string, modules []string) (*QuoteSummaryResult, error) {
	crumb, err := c.getCrumb(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))
	params.Set("crumb", crumb)

	var resp quoteSummaryResponse
	endpoint := c.apiURL("/v10/finance/quoteSummary/"+url.PathEscape(ticker), params)
	if err := c.getJSON(ctx, endpoint, c.pageBaseURL+"/quote/"+ticker, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fetchError("quoteSummary API error: "+resp.QuoteSummary.Error.Description, nil)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, parseError("quoteSummary response contains no result", nil)
	}
	return &resp.QuoteSummary.Result[0], nil
}
