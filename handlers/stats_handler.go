package handlers

import (
	"net/http"

	"prestacaocontas/models"
	service "prestacaocontas/services"
	"prestacaocontas/utils"
)

type StatsHandler struct {
	reports  *service.ReportService
	registry *service.RegistryService
}

func NewStatsHandler(reports *service.ReportService, registry *service.RegistryService) *StatsHandler {
	return &StatsHandler{
		reports:  reports,
		registry: registry,
	}
}

// GetStats answers for ?target=overview (default) or ?target=sector:<id>.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	target := models.OverviewTarget()
	if raw := r.URL.Query().Get("target"); raw != "" {
		parsed, err := models.ParseNavigationTarget(raw)
		if err != nil || parsed.IsSettings() {
			utils.HandleMessageResponse(w, "Invalid stats target", http.StatusBadRequest)
			return
		}
		target = parsed
	}
	if target.IsSector() {
		if _, err := h.registry.Sector(target.SectorID); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	stats := h.reports.Aggregator().Stats(target)
	utils.HandleDataResponse(w, "Stats retrieved successfully", stats, http.StatusOK)
}

func (h *StatsHandler) GetSectorProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.registry.Sector(id); err != nil {
		handleServiceError(w, err)
		return
	}

	agg := h.reports.Aggregator()
	data := map[string]interface{}{
		"progress":   agg.SectorProgress(id),
		"deliveries": agg.SectorDeliveryTotal(id),
	}
	utils.HandleDataResponse(w, "Sector progress retrieved successfully", data, http.StatusOK)
}

func (h *StatsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	agg := h.reports.Aggregator()
	data := map[string]interface{}{
		"sectors": agg.SectorRanking(),
		"actions": agg.ActionRanking(),
	}
	utils.HandleDataResponse(w, "Rankings retrieved successfully", data, http.StatusOK)
}

func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Overview retrieved successfully", h.reports.Aggregator().Overview(), http.StatusOK)
}
