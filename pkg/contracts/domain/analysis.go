package domain

import (
	"strconv"
	"strings"
	"time"
)

// Category identifies one data category fetched for a ticker.
// Each category maps to exactly one sheet in the exported workbook.
type Category string

const (
	CategoryPrices         Category = "prices"
	CategoryESG            Category = "esg"
	CategoryProfile        Category = "profile"
	CategoryStatistics     Category = "statistics"
	CategoryIncome         Category = "income"
	CategoryBalance        Category = "balance"
	CategoryCashFlow       Category = "cashflow"
	CategoryPeers          Category = "peers"
	CategorySustainability Category = "sustainability"
)

// Categories lists all data categories in export order. The order
// matches the sheet order of the generated workbook.
var Categories = []Category{
	CategoryPrices,
	CategoryESG,
	CategoryProfile,
	CategoryStatistics,
	CategoryIncome,
	CategoryBalance,
	CategoryCashFlow,
	CategoryPeers,
	CategorySustainability,
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// FormatCount renders an integer with thousands separators, the way
// counts appear throughout the exported workbook.
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var out []byte
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				out = append(out, ',')
			}
			out = append(out, c)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}

// PriceBar represents one trading day of OHLCV data.
type PriceBar struct {
	Date   time.Time `json:"date" validate:"required"`
	Open   float64   `json:"open" validate:"min=0"`
	High   float64   `json:"high" validate:"min=0"`
	Low    float64   `json:"low" validate:"min=0"`
	Close  float64   `json:"close" validate:"min=0"`
	Volume int64     `json:"volume" validate:"min=0"`
}

// ProfileField is a single labelled value on the company summary sheet.
// Fields keep their insertion order so the exported sheet mirrors the
// layout of the quote page.
type ProfileField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CompanyProfile holds descriptive company information plus a snapshot
// of the current quote. Missing upstream fields are simply absent.
type CompanyProfile struct {
	Name              string         `json:"name"`
	Sector            string         `json:"sector"`
	Industry          string         `json:"industry"`
	Website           string         `json:"website"`
	City              string         `json:"city"`
	Country           string         `json:"country"`
	FullTimeEmployees int64          `json:"full_time_employees"`
	Summary           string         `json:"summary"`
	Quote             []ProfileField `json:"quote"`
}

// StatementType distinguishes the three financial statements.
type StatementType string

const (
	StatementIncome   StatementType = "income"
	StatementBalance  StatementType = "balance"
	StatementCashFlow StatementType = "cashflow"
)

// StatementRow is one line item of a financial statement with one
// value per reporting period. A nil value means the provider did not
// report that item for the period. Section rows carry no values and
// only group the items beneath them.
type StatementRow struct {
	Label   string     `json:"label"`
	Section bool       `json:"section,omitempty"`
	Values  []*float64 `json:"values"`
}

// FinancialStatement is a full statement for a ticker: reporting
// periods (newest first) and the line items beneath them.
type FinancialStatement struct {
	Type    StatementType  `json:"type"`
	Periods []time.Time    `json:"periods"`
	Rows    []StatementRow `json:"rows"`
}

// StatisticGroup is a named block of key statistics, mirroring the
// category blocks on the provider's key-statistics page.
type StatisticGroup struct {
	Name    string         `json:"name"`
	Metrics []ProfileField `json:"metrics"`
}

// ESGPoint is one dated total-ESG observation.
type ESGPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// ESGScores holds current component scores and the historical total
// series. All component pointers are nil when the provider has no ESG
// coverage for the ticker.
type ESGScores struct {
	TotalESG         *float64   `json:"total_esg,omitempty"`
	Environment      *float64   `json:"environment,omitempty"`
	Social           *float64   `json:"social,omitempty"`
	Governance       *float64   `json:"governance,omitempty"`
	ControversyLevel *float64   `json:"controversy_level,omitempty"`
	History          []ESGPoint `json:"history,omitempty"`
	Source           string     `json:"source,omitempty"`
}

// Empty reports whether no ESG data at all was found.
func (e *ESGScores) Empty() bool {
	return e == nil || (e.TotalESG == nil && e.Environment == nil &&
		e.Social == nil && e.Governance == nil && len(e.History) == 0)
}

// InvolvementArea is one product involvement category with the
// provider's flag for it ("Yes"/"No" or a percentage).
type InvolvementArea struct {
	Area  string `json:"area"`
	Value string `json:"value"`
}

// Sustainability carries the controversy level and the product
// involvement areas from the sustainability page.
type Sustainability struct {
	ControversyLevel *float64          `json:"controversy_level,omitempty"`
	Involvement      []InvolvementArea `json:"involvement,omitempty"`
}

// Empty reports whether no sustainability data at all was found.
func (s *Sustainability) Empty() bool {
	return s == nil || (s.ControversyLevel == nil && len(s.Involvement) == 0)
}

// PeerRecord is one industry peer with its ESG risk scores.
type PeerRecord struct {
	Ticker      string   `json:"ticker"`
	CompanyName string   `json:"company_name"`
	TotalESG    *float64 `json:"total_esg,omitempty"`
	Environment *float64 `json:"environment,omitempty"`
	Social      *float64 `json:"social,omitempty"`
	Governance  *float64 `json:"governance,omitempty"`
}

// CategoryFailure records a category that could not be fetched or
// parsed during a run. The run continues; the exporter writes a
// placeholder sheet carrying the message.
type CategoryFailure struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// AnalysisDocument aggregates everything fetched for one ticker in one
// run. It is created by the aggregator, populated incrementally and
// consumed exactly once by the exporter.
type AnalysisDocument struct {
	Ticker         string               `json:"ticker" validate:"required"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Prices         []PriceBar           `json:"prices,omitempty"`
	ESG            *ESGScores           `json:"esg,omitempty"`
	Profile        *CompanyProfile      `json:"profile,omitempty"`
	Statistics     []StatisticGroup     `json:"statistics,omitempty"`
	Statements     []FinancialStatement `json:"statements,omitempty"`
	Peers          []PeerRecord         `json:"peers,omitempty"`
	Sustainability *Sustainability      `json:"sustainability,omitempty"`
	Failures       []CategoryFailure    `json:"failures,omitempty"`
}

// Statement returns the statement of the given type, or nil when that
// category failed or was never fetched.
func (d *AnalysisDocument) Statement(t StatementType) *FinancialStatement {
	for i := range d.Statements {
		if d.Statements[i].Type == t {
			return &d.Statements[i]
		}
	}
	return nil
}

// Failed reports whether the given category failed during the run.
func (d *AnalysisDocument) Failed(c Category) (CategoryFailure, bool) {
	for _, f := range d.Failures {
		if f.Category == c {
			return f, true
		}
	}
	return CategoryFailure{}, false
}
