// Package exporter writes an assembled analysis document into a
// formatted multi-sheet spreadsheet, one sheet per data category.
package exporter

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ddihora1604/IITK-ESG/internal/config"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// sheetNames maps categories to their sheet titles, in workbook order.
var sheetOrder = []struct {
	category domain.Category
	name     string
}{
	{domain.CategoryPrices, "Historical Data"},
	{domain.CategoryESG, "ESG Scores"},
	{domain.CategoryProfile, "Company Summary"},
	{domain.CategoryStatistics, "Statistics"},
	{domain.CategoryIncome, "Income Statement"},
	{domain.CategoryBalance, "Balance Sheet"},
	{domain.CategoryCashFlow, "Cash Flow"},
	{domain.CategoryPeers, "Peer Comparison"},
	{domain.CategorySustainability, "Sustainability"},
}

// WorkbookWriter exports analysis documents as spreadsheets.
type WorkbookWriter struct {
	paths *config.Paths
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(paths *config.Paths) *WorkbookWriter {
	return &WorkbookWriter{paths: paths}
}

// styles holds the style IDs registered on one workbook.
type styles struct {
	header  int
	date    int
	number  int
	section int
	note    int
}

// Write exports the document to <outputDir>/<TICKER>.xlsx, overwriting
// any previous export. Categories that failed during the run get a
// placeholder sheet carrying the failure message.
func (w *WorkbookWriter) Write(doc *domain.AnalysisDocument) (string, error) {
	outPath := w.paths.WorkbookPath(doc.Ticker)

	slog.Info("writing workbook",
		slog.String("ticker", doc.Ticker),
		slog.String("path", outPath),
		slog.Int("failed_categories", len(doc.Failures)))

	if err := w.checkWritable(outPath); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := registerStyles(f)
	if err != nil {
		return "", apperrors.NewExportError("failed to register styles", err)
	}

	for _, sheet := range sheetOrder {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return "", apperrors.NewExportError("failed to create sheet "+sheet.name, err)
		}
		if failure, failed := doc.Failed(sheet.category); failed {
			if err := writePlaceholder(f, sheet.name, failure, st); err != nil {
				return "", err
			}
			continue
		}
		if err := w.writeSheet(f, sheet.name, sheet.category, doc, st); err != nil {
			return "", err
		}
	}

	// Drop the default sheet so the workbook starts at Historical Data.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", apperrors.NewExportError("failed to remove default sheet", err)
	}

	if err := f.SaveAs(outPath); err != nil {
		return "", apperrors.NewExportError("failed to save workbook", err)
	}

	return outPath, nil
}

// checkWritable verifies the output file is not locked by another
// program before spending time building the workbook.
func (w *WorkbookWriter) checkWritable(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil // nothing to overwrite
	}
	file, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewExportError(
			fmt.Sprintf("output file %s is not writable; close it in other programs", path), err)
	}
	return file.Close()
}

// writeSheet dispatches to the per-category sheet writer.
func (w *WorkbookWriter) writeSheet(f *excelize.File, name string, category domain.Category, doc *domain.AnalysisDocument, st *styles) error {
	var err error
	switch category {
	case domain.CategoryPrices:
		err = writePricesSheet(f, name, doc.Prices, st)
	case domain.CategoryESG:
		err = writeESGSheet(f, name, doc.ESG, st)
	case domain.CategoryProfile:
		err = writeProfileSheet(f, name, doc.Profile, st)
	case domain.CategoryStatistics:
		err = writeStatisticsSheet(f, name, doc.Statistics, st)
	case domain.CategoryIncome:
		err = writeStatementSheet(f, name, doc.Statement(domain.StatementIncome), st)
	case domain.CategoryBalance:
		err = writeStatementSheet(f, name, doc.Statement(domain.StatementBalance), st)
	case domain.CategoryCashFlow:
		err = writeStatementSheet(f, name, doc.Statement(domain.StatementCashFlow), st)
	case domain.CategoryPeers:
		err = writePeersSheet(f, name, doc.Peers, st)
	case domain.CategorySustainability:
		err = writeSustainabilitySheet(f, name, doc.Sustainability, st)
	}
	if err != nil {
		return apperrors.NewExportError("failed to write sheet "+name, err)
	}
	return nil
}

// registerStyles creates the shared cell styles on a new workbook.
func registerStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return nil, err
	}

	dateFmt := "dd-mm-yyyy"
	date, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	numberFmt := "#,##0.00"
	number, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numberFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, err
	}

	section, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, err
	}

	note, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 10},
	})
	if err != nil {
		return nil, err
	}

	return &styles{
		header:  header,
		date:    date,
		number:  number,
		section: section,
		note:    note,
	}, nil
}

// writePlaceholder writes the failure message into an otherwise empty
// sheet so the workbook always carries every category.
func writePlaceholder(f *excelize.File, sheet string, failure domain.CategoryFailure, st *styles) error {
	if err := f.SetCellValue(sheet, "A1", "Error"); err != nil {
		return apperrors.NewExportError("failed to write placeholder for "+sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.header); err != nil {
		return apperrors.NewExportError("failed to style placeholder for "+sheet, err)
	}
	if err := f.SetCellValue(sheet, "A2", failure.Message); err != nil {
		return apperrors.NewExportError("failed to write placeholder for "+sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 80)
}
