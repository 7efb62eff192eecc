package export_services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
)

// sortForExport fixes the row order of every export: status, then position,
// then creation time. Documents built from the same card set are identical.
func sortForExport(cards []*kanban_model.Card) []*kanban_model.Card {
	ordered := make([]*kanban_model.Card, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return ordered
}

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// BuildDocument renders the card set as an A4 table, one row per card.
func (s *PDFService) BuildDocument(cards []*kanban_model.Card) ([]byte, error) {
	ordered := sortForExport(cards)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(41, 98, 255)
	pdf.CellFormat(0, 12, "Kanban Board", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	colWidths := []float64{10, 50, 70, 25, 35}
	headers := []string{"#", "Title", "Description", "Status", "Updated"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, card := range ordered {
		description := ""
		if card.Description != nil {
			description = *card.Description
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			card.Title,
			description,
			card.Status,
			card.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for j, c := range cells {
			pdf.CellFormat(colWidths[j], 7, c, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
