package extract

import (
	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// statisticFormat selects how a metric value is rendered on the
// statistics sheet.
type statisticFormat int

const (
	fmtCurrency statisticFormat = iota
	fmtPercent
	fmtRatio
	fmtCount
	fmtDate
)

type statisticField struct {
	label  string
	key    string
	format statisticFormat
}

type statisticCategory struct {
	name   string
	fields []statisticField
}

// statisticCategories mirrors the category blocks of the provider's
// key-statistics page, in page order.
var statisticCategories = []statisticCategory{
	{"Valuation Measures", []statisticField{
		{"Market Cap", "marketCap", fmtCurrency},
		{"Enterprise Value", "enterpriseValue", fmtCurrency},
		{"Trailing P/E", "trailingPE", fmtRatio},
		{"Forward P/E", "forwardPE", fmtRatio},
		{"PEG Ratio", "pegRatio", fmtRatio},
		{"Price/Sales (ttm)", "priceToSalesTrailing12Months", fmtRatio},
		{"Price/Book", "priceToBook", fmtRatio},
		{"Enterprise Value/Revenue", "enterpriseToRevenue", fmtRatio},
		{"Enterprise Value/EBITDA", "enterpriseToEbitda", fmtRatio},
	}},
	{"Financial Highlights", []statisticField{
		{"Profit Margin", "profitMargins", fmtPercent},
		{"Operating Margin (ttm)", "operatingMargins", fmtPercent},
		{"Return on Assets", "returnOnAssets", fmtPercent},
		{"Return on Equity", "returnOnEquity", fmtPercent},
		{"Revenue (ttm)", "totalRevenue", fmtCurrency},
		{"Revenue Per Share", "revenuePerShare", fmtRatio},
		{"Quarterly Revenue Growth", "revenueGrowth", fmtPercent},
		{"Gross Profit (ttm)", "grossProfits", fmtCurrency},
		{"EBITDA", "ebitda", fmtCurrency},
		{"Diluted EPS (ttm)", "trailingEps", fmtRatio},
		{"Quarterly Earnings Growth", "earningsGrowth", fmtPercent},
	}},
	{"Trading Information", []statisticField{
		{"Beta (5Y Monthly)", "beta", fmtRatio},
		{"52-Week High", "fiftyTwoWeekHigh", fmtRatio},
		{"52-Week Low", "fiftyTwoWeekLow", fmtRatio},
		{"50-Day Moving Average", "fiftyDayAverage", fmtRatio},
		{"200-Day Moving Average", "twoHundredDayAverage", fmtRatio},
		{"Average Volume (3 Month)", "averageVolume", fmtCount},
		{"Average Volume (10 Day)", "averageVolume10days", fmtCount},
	}},
	{"Dividends & Splits", []statisticField{
		{"Forward Annual Dividend Rate", "dividendRate", fmtRatio},
		{"Forward Annual Dividend Yield", "dividendYield", fmtPercent},
		{"Payout Ratio", "payoutRatio", fmtPercent},
		{"Ex-Dividend Date", "exDividendDate", fmtDate},
		{"Last Split Date", "lastSplitDate", fmtDate},
	}},
	{"Balance Sheet", []statisticField{
		{"Total Cash", "totalCash", fmtCurrency},
		{"Total Cash Per Share", "totalCashPerShare", fmtRatio},
		{"Total Debt", "totalDebt", fmtCurrency},
		{"Total Debt/Equity", "debtToEquity", fmtRatio},
		{"Current Ratio", "currentRatio", fmtRatio},
		{"Book Value Per Share", "bookValue", fmtRatio},
	}},
	{"Cash Flow", []statisticField{
		{"Operating Cash Flow (ttm)", "operatingCashflow", fmtCurrency},
		{"Levered Free Cash Flow (ttm)", "freeCashflow", fmtCurrency},
	}},
}

// Statistics builds the grouped key-statistics sheet content from the
// summaryDetail, defaultKeyStatistics and financialData modules.
// Metrics the provider omitted render as "N/A".
func Statistics(res *datasource.QuoteSummaryResult) ([]domain.StatisticGroup, error) {
	if res == nil || (len(res.SummaryDetail) == 0 && len(res.DefaultKeyStatistics) == 0 && len(res.FinancialData) == 0) {
		return nil, apperrors.NewParseError("quoteSummary result carries no statistics modules", nil)
	}

	groups := make([]domain.StatisticGroup, 0, len(statisticCategories))
	for _, cat := range statisticCategories {
		group := domain.StatisticGroup{Name: cat.name}
		for _, f := range cat.fields {
			value := lookupValue(f.key, res.SummaryDetail, res.DefaultKeyStatistics, res.FinancialData)
			group.Metrics = append(group.Metrics, domain.ProfileField{
				Label: f.label,
				Value: formatStatistic(value, f.format),
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func formatStatistic(value *float64, format statisticFormat) string {
	if value == nil {
		return "N/A"
	}
	switch format {
	case fmtCurrency:
		return formatLargeCurrency(*value)
	case fmtPercent:
		return formatPercent(*value)
	case fmtCount:
		return formatWholeNumber(*value)
	case fmtDate:
		return unixDate(int64(*value)).Format("2006-01-02")
	default:
		return formatRatio(*value)
	}
}
