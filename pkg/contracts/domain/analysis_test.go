package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name   string
		ticker string
		want   string
	}{
		{name: "lowercase", ticker: "aapl", want: "AAPL"},
		{name: "surrounding whitespace", ticker: "  msft\t", want: "MSFT"},
		{name: "already normalized", ticker: "GOOGL", want: "GOOGL"},
		{name: "empty", ticker: "", want: ""},
		{name: "whitespace only", ticker: "   ", want: ""},
		{name: "exchange suffix kept", ticker: "bmw.de", want: "BMW.DE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTicker(tt.ticker))
		})
	}
}

func TestESGScores_Empty(t *testing.T) {
	score := 25.5

	tests := []struct {
		name   string
		scores *ESGScores
		want   bool
	}{
		{name: "nil receiver", scores: nil, want: true},
		{name: "zero value", scores: &ESGScores{}, want: true},
		{name: "source only", scores: &ESGScores{Source: "esgChart API"}, want: true},
		{name: "total score", scores: &ESGScores{TotalESG: &score}, want: false},
		{name: "component only", scores: &ESGScores{Governance: &score}, want: false},
		{
			name:   "history only",
			scores: &ESGScores{History: []ESGPoint{{Score: score}}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scores.Empty())
		})
	}
}

func TestAnalysisDocument_Statement(t *testing.T) {
	doc := &AnalysisDocument{
		Ticker: "AAPL",
		Statements: []FinancialStatement{
			{Type: StatementIncome},
			{Type: StatementCashFlow},
		},
	}

	stmt := doc.Statement(StatementIncome)
	require.NotNil(t, stmt)
	assert.Equal(t, StatementIncome, stmt.Type)

	assert.Nil(t, doc.Statement(StatementBalance))
}

func TestAnalysisDocument_Failed(t *testing.T) {
	doc := &AnalysisDocument{
		Ticker: "AAPL",
		Failures: []CategoryFailure{
			{Category: CategoryESG, Message: "no ESG data"},
		},
	}

	failure, failed := doc.Failed(CategoryESG)
	require.True(t, failed)
	assert.Equal(t, "no ESG data", failure.Message)

	_, failed = doc.Failed(CategoryPrices)
	assert.False(t, failed)
}

func TestCategories_CoverEveryCategory(t *testing.T) {
	assert.Len(t, Categories, 9)
	seen := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}

func TestSustainability_Empty(t *testing.T) {
	level := 3.0

	tests := []struct {
		name string
		sust *Sustainability
		want bool
	}{
		{name: "nil receiver", sust: nil, want: true},
		{name: "zero value", sust: &Sustainability{}, want: true},
		{name: "controversy only", sust: &Sustainability{ControversyLevel: &level}, want: false},
		{
			name: "involvement only",
			sust: &Sustainability{Involvement: []InvolvementArea{{Area: "Tobacco", Value: "No"}}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sust.Empty())
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{name: "small", input: 950, want: "950"},
		{name: "thousands", input: 161000, want: "161,000"},
		{name: "millions", input: 1234567, want: "1,234,567"},
		{name: "negative", input: -4200, want: "-4,200"},
		{name: "zero", input: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.input))
		})
	}
}
