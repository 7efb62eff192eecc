package export_services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
)

const sheetName = "Kanban"

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// BuildWorkbook renders the card set as a single-sheet workbook, one row
// per card in export order.
func (s *ExcelService) BuildWorkbook(cards []*kanban_model.Card) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Title", "Description", "Status", "Position", "Created", "Updated"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, card := range sortForExport(cards) {
		description := ""
		if card.Description != nil {
			description = *card.Description
		}
		values := []any{
			card.Title,
			description,
			card.Status,
			card.Position,
			card.CreatedAt.Format("2006-01-02 15:04"),
			card.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "C", "F", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
