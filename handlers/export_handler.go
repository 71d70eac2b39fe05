package handlers

import (
	"fmt"
	"net/http"
	"strings"

	service "prestacaocontas/services"
	"prestacaocontas/utils"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	reports *service.ReportService
	export  *service.ExportService
}

func NewExportHandler(reports *service.ReportService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{
		reports: reports,
		export:  export,
	}
}

// GetSectorReport returns the printable report structure as JSON.
func (h *ExportHandler) GetSectorReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.SectorReport(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Report retrieved successfully", report, http.StatusOK)
}

func (h *ExportHandler) ExportSector(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.export.ExportSector(id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer f.Close()

	year := h.reports.ActiveYear().Year
	writeWorkbook(w, f, fmt.Sprintf("relatorio_%s_%d.xlsx", strings.ToLower(id), year))
}

func (h *ExportHandler) ExportConsolidated(w http.ResponseWriter, r *http.Request) {
	f, err := h.export.ExportConsolidated()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer f.Close()

	year := h.reports.ActiveYear().Year
	writeWorkbook(w, f, fmt.Sprintf("relatorio_consolidado_%d.xlsx", year))
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		utils.HandleMessageResponse(w, "Failed to render workbook", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
