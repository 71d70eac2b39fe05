package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	middleware "prestacaocontas/middlewares"
	service "prestacaocontas/services"
	"prestacaocontas/utils"
)

const maxEvidenceSize = 10 << 20 // 10 MB

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

func (h *ReportHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"active": h.service.ActiveYear(),
		"years":  h.service.Years(),
	}
	utils.HandleDataResponse(w, "Years retrieved successfully", data, http.StatusOK)
}

func (h *ReportHandler) SelectYear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year int `json:"year" validate:"required"`
	}
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	info, err := h.service.SelectYear(ctx, req.Year)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Year selected successfully", info, http.StatusOK)
}

// GetEntries lists the active year's entries, optionally filtered by ?sector=.
func (h *ReportHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	sectorID := r.URL.Query().Get("sector")
	entries := h.service.Entries()
	if sectorID != "" {
		entries = h.service.SectorEntries(sectorID)
	}
	utils.HandleDataResponse(w, "Entries retrieved successfully", entries, http.StatusOK)
}

func (h *ReportHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Entry(r.PathValue("actionId"), r.PathValue("sectorId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Entry retrieved successfully", entry, http.StatusOK)
}

func (h *ReportHandler) ToggleActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entry, err := h.service.ToggleActivity(ctx, r.PathValue("actionId"), r.PathValue("sectorId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Activity status updated successfully", entry, http.StatusOK)
}

func (h *ReportHandler) AddDelivery(w http.ResponseWriter, r *http.Request) {
	var input service.DeliveryInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.AddDelivery(ctx, r.PathValue("actionId"), r.PathValue("sectorId"), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Delivery created successfully", item, http.StatusCreated)
}

func (h *ReportHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	var input service.DeliveryInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.UpdateDelivery(ctx, r.PathValue("actionId"), r.PathValue("sectorId"), r.PathValue("deliveryId"), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Delivery updated successfully", item, http.StatusOK)
}

// DeleteDelivery requires ?confirm=true.
func (h *ReportHandler) DeleteDelivery(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := h.service.DeleteDelivery(ctx, r.PathValue("actionId"), r.PathValue("sectorId"), r.PathValue("deliveryId"), confirmed)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Delivery deleted successfully", http.StatusOK)
}

func (h *ReportHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.HandleMessageResponse(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.HandleMessageResponse(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxEvidenceSize {
		utils.HandleMessageResponse(w, "File size too large (max 10MB)", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	upload := service.EvidenceUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	}
	attachment, err := h.service.AttachEvidence(ctx, r.PathValue("actionId"), r.PathValue("sectorId"), r.PathValue("deliveryId"),
		upload, middleware.GetUsernameFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "File uploaded successfully", attachment, http.StatusCreated)
}

func (h *ReportHandler) DeleteEvidence(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := h.service.RemoveEvidence(ctx, r.PathValue("actionId"), r.PathValue("sectorId"), r.PathValue("deliveryId"), r.PathValue("attachmentId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Attachment deleted successfully", http.StatusOK)
}

func (h *ReportHandler) DownloadEvidence(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	file, err := h.service.OpenEvidence(ctx, r.PathValue("fileId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer file.Content.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Name))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))

	if _, err := io.Copy(w, file.Content); err != nil {
		utils.HandleMessageResponse(w, "Failed to download file", http.StatusInternalServerError)
		return
	}
}

// ImproveText waits for the collaborator without a deadline and always answers
// with a text, unchanged when no improvement was produced.
func (h *ReportHandler) ImproveText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text" validate:"required"`
		Mode string `json:"mode" validate:"required,oneof=actions results"`
	}
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	text, improved := h.service.ImproveText(r.Context(), req.Text, service.ImproveMode(req.Mode))
	data := map[string]interface{}{
		"text":     text,
		"improved": improved,
	}
	utils.HandleDataResponse(w, "Text processed successfully", data, http.StatusOK)
}
