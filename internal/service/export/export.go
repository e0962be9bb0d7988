// Package export packages session-recorded interactions into downloadable
// archives: a zip-compressed CSV with the fixed CRM column set, or an XLSX
// workbook.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"crm-voice-ingress-service/internal/models"
)

// Archive filenames.
const (
	ZipName   = "crm_interactions.zip"
	CSVName   = "crm_interaction.csv"
	XLSXName  = "crm_interactions.xlsx"
	sheetName = "Sheet1"
)

// BuildZip writes the rows as one CSV file inside a deflate-compressed zip.
func BuildZip(rows []models.InteractionRow) ([]byte, error) {
	var csvBuf bytes.Buffer
	w := csv.NewWriter(&csvBuf)
	if err := w.Write(models.ExportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	f, err := zw.Create(CSVName)
	if err != nil {
		return nil, fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := f.Write(csvBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return zipBuf.Bytes(), nil
}

// BuildXLSX writes the rows as a single-sheet Excel workbook.
func BuildXLSX(rows []models.InteractionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(models.ExportColumns))
	for i, col := range models.ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range rows {
		values := row.Values()
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("write xlsx row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
