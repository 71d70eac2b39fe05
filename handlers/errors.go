package handlers

import (
	"errors"
	"net/http"

	"prestacaocontas/services"
	"prestacaocontas/utils"
)

// handleServiceError maps service errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.HandleValidationResponse(w, http.StatusBadRequest, validationErr.Fields)
	case errors.Is(err, services.ErrNotFound):
		utils.HandleMessageResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyExists):
		utils.HandleMessageResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrReadOnlyYear):
		utils.HandleMessageResponse(w, "Modo de leitura: alterações bloqueadas para anos históricos", http.StatusForbidden)
	case errors.Is(err, services.ErrYearNotSelectable):
		utils.HandleMessageResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.HandleMessageResponse(w, "Confirme a exclusão da entrega (confirm=true)", http.StatusPreconditionRequired)
	case errors.Is(err, services.ErrInvalidInput):
		utils.HandleMessageResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
	}
}
