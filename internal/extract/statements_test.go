package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

func rawValue(v float64) datasource.RawValue {
	return datasource.RawValue{Raw: &v}
}

func TestStatement_OrdersPeriodsNewestFirst(t *testing.T) {
	periods := []datasource.StatementPeriod{
		{"endDate": rawValue(1640995200), "totalRevenue": rawValue(100)}, // 2022
		{"endDate": rawValue(1704067200), "totalRevenue": rawValue(300)}, // 2024
		{"endDate": rawValue(1672531200), "totalRevenue": rawValue(200)}, // 2023
	}

	stmt, err := Statement(periods, domain.StatementIncome)
	require.NoError(t, err)

	require.Len(t, stmt.Periods, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), stmt.Periods[0])
	for i := 1; i < len(stmt.Periods); i++ {
		assert.True(t, stmt.Periods[i].Before(stmt.Periods[i-1]))
	}

	require.NotEmpty(t, stmt.Rows)
	revenue := stmt.Rows[0]
	assert.Equal(t, "Revenue", revenue.Label)
	require.Len(t, revenue.Values, 3)
	assert.Equal(t, 300.0, *revenue.Values[0])
	assert.Equal(t, 200.0, *revenue.Values[1])
	assert.Equal(t, 100.0, *revenue.Values[2])
}

func TestStatement_SectionRowsCarryNoValues(t *testing.T) {
	periods := []datasource.StatementPeriod{
		{"endDate": rawValue(1704067200), "totalAssets": rawValue(5000)},
	}

	stmt, err := Statement(periods, domain.StatementBalance)
	require.NoError(t, err)

	var sections, items int
	for _, row := range stmt.Rows {
		if row.Section {
			sections++
			assert.Empty(t, row.Values, "section %q must not carry values", row.Label)
		} else {
			items++
			assert.Len(t, row.Values, 1)
		}
	}
	assert.Equal(t, 3, sections) // Assets, Liabilities, Stockholders' Equity
	assert.Greater(t, items, 0)
}

func TestStatement_MissingLineItemsStayNil(t *testing.T) {
	periods := []datasource.StatementPeriod{
		{
			"endDate":      rawValue(1704067200),
			"netIncome":    rawValue(42),
			"depreciation": rawValue(7),
		},
	}

	stmt, err := Statement(periods, domain.StatementCashFlow)
	require.NoError(t, err)

	byLabel := make(map[string]domain.StatementRow)
	for _, row := range stmt.Rows {
		byLabel[row.Label] = row
	}

	net := byLabel["Net Income"]
	require.Len(t, net.Values, 1)
	require.NotNil(t, net.Values[0])
	assert.Equal(t, 42.0, *net.Values[0])

	capex := byLabel["Capital Expenditures"]
	require.Len(t, capex.Values, 1)
	assert.Nil(t, capex.Values[0])
}

func TestStatement_LayoutsPerType(t *testing.T) {
	periods := []datasource.StatementPeriod{
		{"endDate": rawValue(1704067200)},
	}

	tests := []struct {
		name     string
		stype    domain.StatementType
		wantRows int
		firstRow string
	}{
		{name: "income", stype: domain.StatementIncome, wantRows: len(incomeMetrics), firstRow: "Revenue"},
		{name: "balance", stype: domain.StatementBalance, wantRows: len(balanceMetrics), firstRow: "Assets"},
		{name: "cash flow", stype: domain.StatementCashFlow, wantRows: len(cashFlowMetrics), firstRow: "Operating Activities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Statement(periods, tt.stype)
			require.NoError(t, err)
			assert.Equal(t, tt.stype, stmt.Type)
			assert.Len(t, stmt.Rows, tt.wantRows)
			assert.Equal(t, tt.firstRow, stmt.Rows[0].Label)
		})
	}
}

func TestStatement_NoPeriods(t *testing.T) {
	_, err := Statement(nil, domain.StatementIncome)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
