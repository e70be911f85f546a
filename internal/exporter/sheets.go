package exporter

import (
	"github.com/xuri/excelize/v2"

	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// writePricesSheet writes the OHLCV history with dates as real date
// cells, preserving the order the bars arrived in.
func writePricesSheet(f *excelize.File, sheet string, bars []domain.PriceBar, st *styles) error {
	headers := []string{"Date", "Open", "High", "Low", "Close", "Volume"}
	if err := writeHeaderRow(f, sheet, headers, st); err != nil {
		return err
	}

	for i, bar := range bars {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		}); err != nil {
			return err
		}
	}

	if len(bars) > 0 {
		last := len(bars) + 1
		start, _ := excelize.CoordinatesToCellName(1, 2)
		end, _ := excelize.CoordinatesToCellName(1, last)
		if err := f.SetCellStyle(sheet, start, end, st.date); err != nil {
			return err
		}
		numStart, _ := excelize.CoordinatesToCellName(2, 2)
		numEnd, _ := excelize.CoordinatesToCellName(5, last)
		if err := f.SetCellStyle(sheet, numStart, numEnd, st.number); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "F", 14)
}

// writeESGSheet writes the historical ESG series followed by the
// current component summary block, matching the layout of the original
// report.
func writeESGSheet(f *excelize.File, sheet string, esg *domain.ESGScores, st *styles) error {
	headers := []string{"Date", "ESG Score", "Environmental", "Social", "Governance"}
	if err := writeHeaderRow(f, sheet, headers, st); err != nil {
		return err
	}
	if esg == nil {
		return nil
	}

	// The provider only publishes current component values, so every
	// history row carries the same E/S/G columns.
	row := 2
	for _, point := range esg.History {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{point.Date, point.Score}
		for _, component := range []*float64{esg.Environment, esg.Social, esg.Governance} {
			if component != nil {
				values = append(values, *component)
			} else {
				values = append(values, nil)
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	if len(esg.History) > 0 {
		start, _ := excelize.CoordinatesToCellName(1, 2)
		end, _ := excelize.CoordinatesToCellName(1, row-1)
		if err := f.SetCellStyle(sheet, start, end, st.date); err != nil {
			return err
		}
	}

	noteCell, _ := excelize.CoordinatesToCellName(1, row+1)
	source := esg.Source
	if source == "" {
		source = "unknown"
	}
	if err := f.SetCellValue(sheet, noteCell, "Note: component scores are current values ("+source+")"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, noteCell, noteCell, st.note); err != nil {
		return err
	}

	// Current component summary block.
	summary := []struct {
		label string
		value *float64
	}{
		{"Total ESG Score", esg.TotalESG},
		{"Environmental Score", esg.Environment},
		{"Social Score", esg.Social},
		{"Governance Score", esg.Governance},
		{"Controversy Level", esg.ControversyLevel},
	}
	headerCell, _ := excelize.CoordinatesToCellName(1, row+3)
	if err := f.SetCellValue(sheet, headerCell, "Latest ESG Component Scores"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, headerCell, headerCell, st.header); err != nil {
		return err
	}
	for i, entry := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, row+4+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, row+4+i)
		if err := f.SetCellValue(sheet, labelCell, entry.label); err != nil {
			return err
		}
		if entry.value != nil {
			if err := f.SetCellValue(sheet, valueCell, *entry.value); err != nil {
				return err
			}
		} else {
			if err := f.SetCellValue(sheet, valueCell, "N/A"); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "E", 15)
}

// writeProfileSheet writes descriptive fields followed by the quote
// snapshot block.
func writeProfileSheet(f *excelize.File, sheet string, profile *domain.CompanyProfile, st *styles) error {
	if err := writeHeaderRow(f, sheet, []string{"Field", "Value"}, st); err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	fields := []domain.ProfileField{
		{Label: "Company Name", Value: profile.Name},
		{Label: "Sector", Value: profile.Sector},
		{Label: "Industry", Value: profile.Industry},
		{Label: "Website", Value: profile.Website},
		{Label: "City", Value: profile.City},
		{Label: "Country", Value: profile.Country},
	}
	if profile.FullTimeEmployees > 0 {
		fields = append(fields, domain.ProfileField{
			Label: "Full Time Employees",
			Value: domain.FormatCount(profile.FullTimeEmployees),
		})
	}
	if profile.Summary != "" {
		fields = append(fields, domain.ProfileField{Label: "Business Summary", Value: profile.Summary})
	}
	fields = append(fields, profile.Quote...)

	for i, field := range fields {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+2)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellValue(sheet, labelCell, field.Label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valueCell, field.Value); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 26); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 60)
}

// writeStatisticsSheet writes the grouped key statistics with one
// styled row per category header.
func writeStatisticsSheet(f *excelize.File, sheet string, groups []domain.StatisticGroup, st *styles) error {
	if err := writeHeaderRow(f, sheet, []string{"Metric", "Value"}, st); err != nil {
		return err
	}

	row := 2
	for _, group := range groups {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, cell, group.Name); err != nil {
			return err
		}
		endCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(sheet, cell, endCell, st.section); err != nil {
			return err
		}
		row++

		for _, metric := range group.Metrics {
			labelCell, _ := excelize.CoordinatesToCellName(1, row)
			valueCell, _ := excelize.CoordinatesToCellName(2, row)
			if err := f.SetCellValue(sheet, labelCell, metric.Label); err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, valueCell, metric.Value); err != nil {
				return err
			}
			row++
		}
		row++ // spacer between groups
	}

	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 20)
}

// writeStatementSheet writes a financial statement: period dates
// across the top, line items down the side, section rows styled.
func writeStatementSheet(f *excelize.File, sheet string, stmt *domain.FinancialStatement, st *styles) error {
	headers := []string{"Breakdown"}
	if stmt != nil {
		for _, period := range stmt.Periods {
			headers = append(headers, period.Format("02-01-2006"))
		}
	}
	if err := writeHeaderRow(f, sheet, headers, st); err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}

	for i, row := range stmt.Rows {
		rowNum := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetCellValue(sheet, labelCell, row.Label); err != nil {
			return err
		}
		if row.Section {
			endCell, _ := excelize.CoordinatesToCellName(len(headers), rowNum)
			if err := f.SetCellStyle(sheet, labelCell, endCell, st.section); err != nil {
				return err
			}
			continue
		}
		for j, value := range row.Values {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+2, rowNum)
			if err := f.SetCellValue(sheet, cell, *value); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, st.number); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	if len(stmt.Periods) > 0 {
		endCol, _ := excelize.ColumnNumberToName(len(stmt.Periods) + 1)
		return f.SetColWidth(sheet, "B", endCol, 20)
	}
	return nil
}

// writePeersSheet writes the peer comparison table.
func writePeersSheet(f *excelize.File, sheet string, peers []domain.PeerRecord, st *styles) error {
	headers := []string{"Ticker", "Company Name", "Total ESG Risk Score", "E Score", "S Score", "G Score"}
	if err := writeHeaderRow(f, sheet, headers, st); err != nil {
		return err
	}

	for i, peer := range peers {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{peer.Ticker, peer.CompanyName}
		for _, score := range []*float64{peer.TotalESG, peer.Environment, peer.Social, peer.Governance} {
			if score != nil {
				values = append(values, *score)
			} else {
				values = append(values, nil)
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "F", 18)
}

// writeSustainabilitySheet writes the controversy level followed by
// the product involvement areas.
func writeSustainabilitySheet(f *excelize.File, sheet string, sust *domain.Sustainability, st *styles) error {
	if err := writeHeaderRow(f, sheet, []string{"Category", "Value"}, st); err != nil {
		return err
	}
	if sust == nil {
		return nil
	}

	if err := f.SetCellValue(sheet, "A2", "Controversy Level"); err != nil {
		return err
	}
	if sust.ControversyLevel != nil {
		if err := f.SetCellValue(sheet, "B2", *sust.ControversyLevel); err != nil {
			return err
		}
	} else {
		if err := f.SetCellValue(sheet, "B2", "N/A"); err != nil {
			return err
		}
	}

	// Blank row 3 separates the block, matching the statistics layout.
	if err := f.SetCellValue(sheet, "A4", "Product Involvement Areas"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "B4", st.section); err != nil {
		return err
	}

	for i, area := range sust.Involvement {
		row := i + 5
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{area.Area, area.Value}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 14)
}

// writeHeaderRow writes and styles the first row of a sheet.
func writeHeaderRow(f *excelize.File, sheet string, headers []string, st *styles) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", end, st.header)
}
