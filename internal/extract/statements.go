package extract

import (
	"sort"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// statementMetric maps a display label to the provider's field key.
// An empty key marks a section header row.
type statementMetric struct {
	label string
	key   string
}

var incomeMetrics = []statementMetric{
	{"Revenue", "totalRevenue"},
	{"Cost of Revenue", "costOfRevenue"},
	{"Gross Profit", "grossProfit"},
	{"Operating Expenses", ""},
	{"Research Development", "researchDevelopment"},
	{"Selling General Administrative", "sellingGeneralAdministrative"},
	{"Total Operating Expenses", "totalOperatingExpenses"},
	{"Operating Income or Loss", "operatingIncome"},
	{"Income from Continuing Operations", ""},
	{"Total Other Income/Expenses Net", "totalOtherIncomeExpenseNet"},
	{"Earnings Before Interest and Taxes", "ebit"},
	{"Interest Expense", "interestExpense"},
	{"Income Before Tax", "incomeBeforeTax"},
	{"Income Tax Expense", "incomeTaxExpense"},
	{"Net Income From Continuing Ops", "netIncomeFromContinuingOps"},
	{"Net Income", "netIncome"},
	{"Net Income Applicable To Common Shares", "netIncomeApplicableToCommonShares"},
}

var balanceMetrics = []statementMetric{
	{"Assets", ""},
	{"Cash And Cash Equivalents", "cash"},
	{"Short Term Investments", "shortTermInvestments"},
	{"Net Receivables", "netReceivables"},
	{"Inventory", "inventory"},
	{"Other Current Assets", "otherCurrentAssets"},
	{"Total Current Assets", "totalCurrentAssets"},
	{"Long Term Investments", "longTermInvestments"},
	{"Property Plant Equipment", "propertyPlantEquipment"},
	{"Goodwill", "goodWill"},
	{"Intangible Assets", "intangibleAssets"},
	{"Other Assets", "otherAssets"},
	{"Total Assets", "totalAssets"},
	{"Liabilities", ""},
	{"Accounts Payable", "accountsPayable"},
	{"Short Term Debt", "shortLongTermDebt"},
	{"Other Current Liabilities", "otherCurrentLiab"},
	{"Total Current Liabilities", "totalCurrentLiabilities"},
	{"Long Term Debt", "longTermDebt"},
	{"Other Liabilities", "otherLiab"},
	{"Total Liabilities", "totalLiab"},
	{"Stockholders' Equity", ""},
	{"Common Stock", "commonStock"},
	{"Retained Earnings", "retainedEarnings"},
	{"Treasury Stock", "treasuryStock"},
	{"Other Stockholder Equity", "otherStockholderEquity"},
	{"Total Stockholder Equity", "totalStockholderEquity"},
}

var cashFlowMetrics = []statementMetric{
	{"Operating Activities", ""},
	{"Net Income", "netIncome"},
	{"Depreciation", "depreciation"},
	{"Change in Working Capital", "changeToNetincome"},
	{"Change in Accounts Receivable", "changeToAccountReceivables"},
	{"Change in Liabilities", "changeToLiabilities"},
	{"Change in Inventory", "changeToInventory"},
	{"Change in Other Operating Activities", "changeToOperatingActivities"},
	{"Total Cash Flow from Operating Activities", "totalCashFromOperatingActivities"},
	{"Investing Activities", ""},
	{"Capital Expenditures", "capitalExpenditures"},
	{"Investments", "investments"},
	{"Other Cash Flows from Investing Activities", "otherCashflowsFromInvestingActivities"},
	{"Total Cash Flows from Investing Activities", "totalCashflowsFromInvestingActivities"},
	{"Financing Activities", ""},
	{"Dividends Paid", "dividendsPaid"},
	{"Stock Sale and Purchase", "netBorrowings"},
	{"Other Cash Flows from Financing Activities", "otherCashflowsFromFinancingActivities"},
	{"Total Cash Flows from Financing Activities", "totalCashFromFinancingActivities"},
	{"Net Change in Cash", "changeInCash"},
}

// metricsFor returns the line-item layout for a statement type.
func metricsFor(t domain.StatementType) []statementMetric {
	switch t {
	case domain.StatementIncome:
		return incomeMetrics
	case domain.StatementBalance:
		return balanceMetrics
	default:
		return cashFlowMetrics
	}
}

// Statement converts statement periods into a normalized statement.
// Periods are ordered newest first; line items the provider omitted
// stay nil rather than failing the statement.
func Statement(periods []datasource.StatementPeriod, t domain.StatementType) (*domain.FinancialStatement, error) {
	if len(periods) == 0 {
		return nil, apperrors.NewParseError("statement history contains no periods", nil)
	}

	sorted := make([]datasource.StatementPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return endDateOf(sorted[i]) > endDateOf(sorted[j])
	})

	stmt := &domain.FinancialStatement{Type: t}
	for _, p := range sorted {
		stmt.Periods = append(stmt.Periods, unixDate(int64(endDateOf(p))))
	}

	for _, m := range metricsFor(t) {
		row := domain.StatementRow{Label: m.label, Section: m.key == ""}
		if !row.Section {
			row.Values = make([]*float64, len(sorted))
			for i, p := range sorted {
				if v, ok := p[m.key]; ok && v.Raw != nil {
					row.Values[i] = v.Raw
				}
			}
		}
		stmt.Rows = append(stmt.Rows, row)
	}

	return stmt, nil
}

func endDateOf(p datasource.StatementPeriod) float64 {
	if v := p.EndDate(); v != nil {
		return *v
	}
	return 0
}
