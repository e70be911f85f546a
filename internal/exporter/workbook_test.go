package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ddihora1604/IITK-ESG/internal/config"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

func floatPtr(v float64) *float64 { return &v }

func testDocument() *domain.AnalysisDocument {
	return &domain.AnalysisDocument{
		Ticker:      "AAPL",
		GeneratedAt: time.Now().UTC(),
		Prices: []domain.PriceBar{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 102, High: 103, Low: 101, Close: 102.5, Volume: 2000},
		},
		ESG: &domain.ESGScores{
			TotalESG:    floatPtr(17.5),
			Environment: floatPtr(0.8),
			Social:      floatPtr(7.3),
			Governance:  floatPtr(9.4),
			History: []domain.ESGPoint{
				{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Score: 17.5},
				{Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Score: 18.2},
			},
			Source: "esgChart API",
		},
		Profile: &domain.CompanyProfile{
			Name:              "Apple Inc.",
			Sector:            "Technology",
			Industry:          "Consumer Electronics",
			FullTimeEmployees: 161000,
			Quote: []domain.ProfileField{
				{Label: "Previous Close", Value: "189.95"},
			},
		},
		Statistics: []domain.StatisticGroup{
			{Name: "Valuation Measures", Metrics: []domain.ProfileField{
				{Label: "Market Cap", Value: "$2950.00B"},
				{Label: "Trailing P/E", Value: "28.43"},
			}},
		},
		Statements: []domain.FinancialStatement{
			{
				Type:    domain.StatementIncome,
				Periods: []time.Time{time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC)},
				Rows: []domain.StatementRow{
					{Label: "Revenue", Values: []*float64{floatPtr(3.83e11)}},
					{Label: "Operating Expenses", Section: true},
					{Label: "Research Development", Values: []*float64{nil}},
				},
			},
			{
				Type:    domain.StatementBalance,
				Periods: []time.Time{time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC)},
				Rows: []domain.StatementRow{
					{Label: "Assets", Section: true},
					{Label: "Total Assets", Values: []*float64{floatPtr(3.52e11)}},
				},
			},
			{
				Type:    domain.StatementCashFlow,
				Periods: []time.Time{time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC)},
				Rows: []domain.StatementRow{
					{Label: "Operating Activities", Section: true},
					{Label: "Net Income", Values: []*float64{floatPtr(9.7e10)}},
				},
			},
		},
		Peers: []domain.PeerRecord{
			{Ticker: "MSFT", CompanyName: "Microsoft Corporation", TotalESG: floatPtr(15.2), Environment: floatPtr(2.4), Social: floatPtr(6.1), Governance: floatPtr(6.7)},
			{Ticker: "GOOG", CompanyName: "Alphabet Inc."},
		},
		Sustainability: &domain.Sustainability{
			ControversyLevel: floatPtr(3),
			Involvement: []domain.InvolvementArea{
				{Area: "Military Contracting", Value: "Yes"},
				{Area: "Tobacco", Value: "No"},
			},
		},
	}
}

func newTestWriter(t *testing.T) (*WorkbookWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewWorkbookWriter(&config.Paths{OutputDir: dir, LogsDir: dir}), dir
}

func TestWorkbookWriter_Write(t *testing.T) {
	writer, dir := newTestWriter(t)

	path, err := writer.Write(testDocument())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AAPL.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	wantSheets := []string{
		"Historical Data",
		"ESG Scores",
		"Company Summary",
		"Statistics",
		"Income Statement",
		"Balance Sheet",
		"Cash Flow",
		"Peer Comparison",
		"Sustainability",
	}
	assert.Equal(t, wantSheets, f.GetSheetList())

	// Historical Data: headers plus chronological bars with date cells.
	header, err := f.GetCellValue("Historical Data", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
	firstDate, err := f.GetCellValue("Historical Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "01-01-2024", firstDate)
	volume, err := f.GetCellValue("Historical Data", "F3")
	require.NoError(t, err)
	assert.Equal(t, "2000", volume)

	// Company Summary carries the profile fields in order.
	name, err := f.GetCellValue("Company Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", name)

	// Statistics: group header then metric rows.
	group, err := f.GetCellValue("Statistics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Valuation Measures", group)
	marketCap, err := f.GetCellValue("Statistics", "B3")
	require.NoError(t, err)
	assert.Equal(t, "$2950.00B", marketCap)

	// Income Statement: period header and first line item.
	period, err := f.GetCellValue("Income Statement", "B1")
	require.NoError(t, err)
	assert.Equal(t, "30-09-2023", period)
	revenueLabel, err := f.GetCellValue("Income Statement", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Revenue", revenueLabel)

	// Missing line item values stay empty.
	rdValue, err := f.GetCellValue("Income Statement", "B4")
	require.NoError(t, err)
	assert.Empty(t, rdValue)

	// Peer Comparison rows, nil scores rendered empty.
	peer, err := f.GetCellValue("Peer Comparison", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", peer)
	googScore, err := f.GetCellValue("Peer Comparison", "C3")
	require.NoError(t, err)
	assert.Empty(t, googScore)

	// Sustainability: controversy level then the involvement block.
	controversy, err := f.GetCellValue("Sustainability", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", controversy)
	blockHeader, err := f.GetCellValue("Sustainability", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Product Involvement Areas", blockHeader)
	tobacco, err := f.GetCellValue("Sustainability", "B6")
	require.NoError(t, err)
	assert.Equal(t, "No", tobacco)
}

func TestWorkbookWriter_Write_PlaceholderForFailedCategory(t *testing.T) {
	writer, _ := newTestWriter(t)

	doc := testDocument()
	doc.ESG = nil
	doc.Failures = []domain.CategoryFailure{
		{Category: domain.CategoryESG, Message: "no ESG data available from any source"},
	}

	path, err := writer.Write(doc)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// The sheet exists even though the category failed.
	assert.Contains(t, f.GetSheetList(), "ESG Scores")

	marker, err := f.GetCellValue("ESG Scores", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Error", marker)
	message, err := f.GetCellValue("ESG Scores", "A2")
	require.NoError(t, err)
	assert.Equal(t, "no ESG data available from any source", message)
}

func TestWorkbookWriter_Write_Overwrites(t *testing.T) {
	writer, _ := newTestWriter(t)

	doc := testDocument()
	path1, err := writer.Write(doc)
	require.NoError(t, err)

	doc.Profile.Name = "Apple Inc. (updated)"
	path2, err := writer.Write(doc)
	require.NoError(t, err)
	assert.Equal(t, path1, path2)

	f, err := excelize.OpenFile(path2)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Company Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc. (updated)", name)
}

func TestWorkbookWriter_Write_ESGSummaryBlock(t *testing.T) {
	writer, _ := newTestWriter(t)

	path, err := writer.Write(testDocument())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// History rows first (2 points), then note, then the summary block.
	score, err := f.GetCellValue("ESG Scores", "B2")
	require.NoError(t, err)
	assert.Equal(t, "17.5", score)

	blockHeader, err := f.GetCellValue("ESG Scores", "A7")
	require.NoError(t, err)
	assert.Equal(t, "Latest ESG Component Scores", blockHeader)

	total, err := f.GetCellValue("ESG Scores", "B8")
	require.NoError(t, err)
	assert.Equal(t, "17.5", total)

	controversy, err := f.GetCellValue("ESG Scores", "B12")
	require.NoError(t, err)
	assert.Equal(t, "N/A", controversy)
}

func TestWorkbookWriter_ChecksTargetWritable(t *testing.T) {
	dir := t.TempDir()
	writer := NewWorkbookWriter(&config.Paths{OutputDir: dir, LogsDir: dir})

	// A directory at the target path cannot be opened for writing,
	// standing in for a file locked by another program.
	target := filepath.Join(dir, "AAPL.xlsx")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, err := writer.Write(testDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not writable")
}
