package export_api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pipecode66/kanban-api/internal/api/middlewares"
	"github.com/pipecode66/kanban-api/internal/services/auth_services"
	"github.com/pipecode66/kanban-api/internal/services/export_services"
	"github.com/pipecode66/kanban-api/internal/services/kanban_services"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Cards       *kanban_services.CardService
	PDF         *export_services.PDFService
	Excel       *export_services.ExcelService
	AuthService *auth_services.AuthService
}

func NewExportHandler(cards *kanban_services.CardService, pdf *export_services.PDFService, excel *export_services.ExcelService, a *auth_services.AuthService) *ExportHandler {
	return &ExportHandler{Cards: cards, PDF: pdf, Excel: excel, AuthService: a}
}

func (h *ExportHandler) ExportRoutes(r *mux.Router) {
	r.Handle("/export/pdf",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.exportPDF)),
	).Methods("GET")

	r.Handle("/export/excel",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.exportExcel)),
	).Methods("GET")
}

func (h *ExportHandler) exportPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication context error", http.StatusUnauthorized)
		return
	}

	cards, err := h.Cards.ListCards(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: pdf export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	doc, err := h.PDF.BuildDocument(cards)
	if err != nil {
		log.Printf("ERROR: pdf export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="kanban.pdf"`)
	w.Write(doc)
}

func (h *ExportHandler) exportExcel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication context error", http.StatusUnauthorized)
		return
	}

	cards, err := h.Cards.ListCards(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: excel export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	workbook, err := h.Excel.BuildWorkbook(cards)
	if err != nil {
		log.Printf("ERROR: excel export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="kanban.xlsx"`)
	w.Write(workbook)
}
