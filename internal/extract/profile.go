package extract

import (
	"strconv"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// quoteField maps a summary-sheet label to a provider field and a
// formatting rule.
type quoteField struct {
	label  string
	key    string
	format func(float64) string
}

// quoteSnapshotFields is the ordered quote block of the company
// summary sheet.
var quoteSnapshotFields = []quoteField{
	{"Previous Close", "previousClose", formatRatio},
	{"Open", "open", formatRatio},
	{"Day Low", "dayLow", formatRatio},
	{"Day High", "dayHigh", formatRatio},
	{"52-Week Low", "fiftyTwoWeekLow", formatRatio},
	{"52-Week High", "fiftyTwoWeekHigh", formatRatio},
	{"Volume", "volume", formatWholeNumber},
	{"Average Volume", "averageVolume", formatWholeNumber},
	{"Market Cap", "marketCap", formatLargeCurrency},
	{"Beta (5Y Monthly)", "beta", formatRatio},
	{"PE Ratio (TTM)", "trailingPE", formatRatio},
	{"EPS (TTM)", "trailingEps", formatRatio},
	{"Forward Dividend Rate", "dividendRate", formatRatio},
	{"Forward Dividend Yield", "dividendYield", formatPercent},
	{"Ex-Dividend Date", "exDividendDate", nil},
	{"1y Target Est", "targetMeanPrice", formatRatio},
}

// Profile builds the company profile from the assetProfile, price,
// summaryDetail and financialData modules. Any missing module leaves
// its fields empty; only a fully absent payload is a parse failure.
func Profile(res *datasource.QuoteSummaryResult) (*domain.CompanyProfile, error) {
	if res == nil || (res.AssetProfile == nil && res.Price == nil && len(res.SummaryDetail) == 0) {
		return nil, apperrors.NewParseError("quoteSummary result carries no profile modules", nil)
	}

	profile := &domain.CompanyProfile{}
	if res.Price != nil {
		profile.Name = res.Price.LongName
		if profile.Name == "" {
			profile.Name = res.Price.ShortName
		}
	}
	if ap := res.AssetProfile; ap != nil {
		profile.Sector = ap.Sector
		profile.Industry = ap.Industry
		profile.Website = ap.Website
		profile.City = ap.City
		profile.Country = ap.Country
		profile.FullTimeEmployees = ap.FullTimeEmployees
		profile.Summary = ap.LongBusinessSummary
	}

	for _, f := range quoteSnapshotFields {
		value := lookupValue(f.key, res.SummaryDetail, res.FinancialData, res.DefaultKeyStatistics)
		formatted := "N/A"
		if value != nil {
			switch {
			case f.key == "exDividendDate":
				formatted = unixDate(int64(*value)).Format("2006-01-02")
			case f.format != nil:
				formatted = f.format(*value)
			default:
				formatted = strconv.FormatFloat(*value, 'f', 2, 64)
			}
		}
		profile.Quote = append(profile.Quote, domain.ProfileField{Label: f.label, Value: formatted})
	}

	return profile, nil
}

// lookupValue finds a raw numeric field across modules, first match
// wins.
func lookupValue(key string, modules ...map[string]datasource.RawValue) *float64 {
	for _, m := range modules {
		if v, ok := m[key]; ok && v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}

// formatWholeNumber renders a count with thousands separators.
func formatWholeNumber(v float64) string {
	return domain.FormatCount(int64(v))
}
