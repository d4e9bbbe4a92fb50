package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"cephai-backend/internal/models"
)

// writeLandmarkSheet writes one row per landmark (name, x, y) to an
// xlsx file at outputPath, overwriting any previous version.
func writeLandmarkSheet(landmarks models.Landmarks, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Landmarks"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"name", "x", "y"}
	for i, hdr := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, hdr); err != nil {
			return err
		}
	}

	for row, lm := range landmarks {
		values := []interface{}{lm.Name, lm.X, lm.Y}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving landmark spreadsheet: %w", err)
	}
	return nil
}
