package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
)

func TestStatistics(t *testing.T) {
	res := &datasource.QuoteSummaryResult{
		SummaryDetail: map[string]datasource.RawValue{
			"marketCap":     rawValue(2.5e12),
			"trailingPE":    rawValue(28.431),
			"dividendYield": rawValue(0.0055),
			"averageVolume": rawValue(56714000),
		},
		DefaultKeyStatistics: map[string]datasource.RawValue{
			"enterpriseValue": rawValue(2.6e12),
			"lastSplitDate":   rawValue(1598832000), // 2020-08-31
		},
		FinancialData: map[string]datasource.RawValue{
			"profitMargins": rawValue(0.2531),
			"totalCash":     rawValue(6.2e10),
		},
	}

	groups, err := Statistics(res)
	require.NoError(t, err)
	require.Len(t, groups, 6)

	wantNames := []string{
		"Valuation Measures",
		"Financial Highlights",
		"Trading Information",
		"Dividends & Splits",
		"Balance Sheet",
		"Cash Flow",
	}
	for i, group := range groups {
		assert.Equal(t, wantNames[i], group.Name)
	}

	byLabel := make(map[string]string)
	for _, group := range groups {
		for _, metric := range group.Metrics {
			byLabel[metric.Label] = metric.Value
		}
	}

	assert.Equal(t, "$2500.00B", byLabel["Market Cap"])
	assert.Equal(t, "28.43", byLabel["Trailing P/E"])
	assert.Equal(t, "0.55%", byLabel["Forward Annual Dividend Yield"])
	assert.Equal(t, "25.31%", byLabel["Profit Margin"])
	assert.Equal(t, "56,714,000", byLabel["Average Volume (3 Month)"])
	assert.Equal(t, "2020-08-31", byLabel["Last Split Date"])
	assert.Equal(t, "$62.00B", byLabel["Total Cash"])

	// Missing metrics render as N/A instead of dropping the row.
	assert.Equal(t, "N/A", byLabel["Forward P/E"])
	assert.Equal(t, "N/A", byLabel["EBITDA"])
}

func TestStatistics_NoModules(t *testing.T) {
	tests := []struct {
		name string
		res  *datasource.QuoteSummaryResult
	}{
		{name: "nil result", res: nil},
		{name: "empty result", res: &datasource.QuoteSummaryResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Statistics(tt.res)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		})
	}
}

func TestFormatStatistic(t *testing.T) {
	tests := []struct {
		name   string
		value  *float64
		format statisticFormat
		want   string
	}{
		{name: "nil value", value: nil, format: fmtRatio, want: "N/A"},
		{name: "currency", value: floatPtr(1.5e9), format: fmtCurrency, want: "$1.50B"},
		{name: "percent", value: floatPtr(0.105), format: fmtPercent, want: "10.50%"},
		{name: "ratio", value: floatPtr(3.14159), format: fmtRatio, want: "3.14"},
		{name: "count", value: floatPtr(1234567), format: fmtCount, want: "1,234,567"},
		{name: "date", value: floatPtr(1704067200), format: fmtDate, want: "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStatistic(tt.value, tt.format))
		})
	}
}
