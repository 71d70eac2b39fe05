package handlers

import (
	"context"
	"net/http"
	"time"

	"prestacaocontas/models"
	service "prestacaocontas/services"
	"prestacaocontas/utils"
)

type RegistryHandler struct {
	service *service.RegistryService
	now     func() time.Time
}

func NewRegistryHandler(service *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{
		service: service,
		now:     time.Now,
	}
}

func (h *RegistryHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Configuration retrieved successfully", h.service.Config(), http.StatusOK)
}

func (h *RegistryHandler) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	var update service.IdentityUpdate
	if err := utils.DecodeJSON(w, r, &update); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cfg, err := h.service.UpdateIdentity(ctx, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Identity updated successfully", cfg, http.StatusOK)
}

func (h *RegistryHandler) UpdateDeadlines(w http.ResponseWriter, r *http.Request) {
	var deadlines models.Deadlines
	if err := utils.DecodeJSON(w, r, &deadlines); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cfg, err := h.service.UpdateDeadlines(ctx, deadlines)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Deadlines updated successfully", cfg, http.StatusOK)
}

func (h *RegistryHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Banner retrieved successfully", h.service.Banner(h.now()), http.StatusOK)
}

func (h *RegistryHandler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Navigation retrieved successfully", h.service.NavigationTargets(), http.StatusOK)
}

func (h *RegistryHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Sectors retrieved successfully", h.service.Sectors(), http.StatusOK)
}

func (h *RegistryHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	sector, err := h.service.Sector(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector retrieved successfully", sector, http.StatusOK)
}

func (h *RegistryHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var sector models.SectorConfig
	if err := utils.DecodeJSON(w, r, &sector); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.service.CreateSector(ctx, sector)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector created successfully", created, http.StatusCreated)
}

func (h *RegistryHandler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	var sector models.SectorConfig
	if err := utils.DecodeJSON(w, r, &sector); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.service.UpdateSector(ctx, r.PathValue("id"), sector)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector updated successfully", updated, http.StatusOK)
}

func (h *RegistryHandler) ToggleSector(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sector, err := h.service.ToggleSector(ctx, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector status updated successfully", sector, http.StatusOK)
}

func (h *RegistryHandler) MoveSectorUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sectors, err := h.service.MoveSectorUp(ctx, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector moved successfully", sectors, http.StatusOK)
}

func (h *RegistryHandler) MoveSectorDown(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sectors, err := h.service.MoveSectorDown(ctx, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Sector moved successfully", sectors, http.StatusOK)
}

func (h *RegistryHandler) GetActions(w http.ResponseWriter, r *http.Request) {
	utils.HandleDataResponse(w, "Strategic actions retrieved successfully", h.service.Actions(), http.StatusOK)
}

func (h *RegistryHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	action, err := h.service.Action(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Strategic action retrieved successfully", action, http.StatusOK)
}

// GetNextActionID suggests the id for a new strategic action.
func (h *RegistryHandler) GetNextActionID(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{"id": h.service.NextActionID()}
	utils.HandleDataResponse(w, "Next action id retrieved successfully", data, http.StatusOK)
}

func (h *RegistryHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	var action models.StrategicAction
	if err := utils.DecodeJSON(w, r, &action); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.service.CreateAction(ctx, action)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Strategic action created successfully", created, http.StatusCreated)
}

func (h *RegistryHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	var action models.StrategicAction
	if err := utils.DecodeJSON(w, r, &action); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.service.UpdateAction(ctx, r.PathValue("id"), action)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Strategic action updated successfully", updated, http.StatusOK)
}

func (h *RegistryHandler) ToggleAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	action, err := h.service.ToggleAction(ctx, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Strategic action status updated successfully", action, http.StatusOK)
}
