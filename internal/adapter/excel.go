package adapter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	m "vdrm.dev/pkg/vdrm/internal/model"
)

const scoresSheet = "Scores"

// ExportExcel writes an evaluation report as an XLSX workbook: one row
// per drug plus a summary block.
func ExportExcel(report m.Report, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(scoresSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	file.SetActiveSheet(index)

	headers := []string{"Gene", "Drug", "Score", "Residues", "Rule"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(scoresSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, score := range report.Scores {
		residues := ""
		for i, residue := range score.Score.SortedResidues() {
			if i > 0 {
				residues += " "
			}

			residues += residue.String()
		}

		values := []interface{}{score.Gene, score.Drug, score.Score.String(), residues, score.RuleText}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(scoresSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write score row: %w", err)
			}
		}
	}

	summaryRow := len(report.Scores) + 3
	summary := [][]interface{}{
		{"Run", report.ID},
		{"Algorithm", report.Algorithm},
		{"Environment", report.Environment},
		{"Evaluated", report.Summary.Evaluated},
		{"Failed", report.Summary.Failed},
		{"Mean", report.Summary.Mean},
		{"Median", report.Summary.Median},
		{"Max", report.Summary.Max},
	}

	for i, pair := range summary {
		for col, value := range pair {
			cell, _ := excelize.CoordinatesToCellName(col+1, summaryRow+i)
			if err := file.SetCellValue(scoresSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
	}

	if err := file.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}
