package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"prestacaocontas/models"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()
	Validate.RegisterValidation("sector_color", func(fl validator.FieldLevel) bool {
		return models.IsSectorColor(fl.Field().String())
	})
}

// FieldErrors validates v and returns a field -> failed tag map, or nil when v is valid.
func FieldErrors(v interface{}) map[string]string {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = e.Tag()
	}
	return errorMessages
}

// DecodeAndValidate decodes the request body into a structure and validates it
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := DecodeJSON(w, r, v); err != nil {
		return err
	}
	if fieldErrors := FieldErrors(v); fieldErrors != nil {
		HandleValidationResponse(w, http.StatusBadRequest, fieldErrors)
		return errors.New("validation failed")
	}
	return nil
}

// DecodeJSON decodes the request body and writes a 400 response on failure
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		HandleMessageResponse(w, err.Error(), http.StatusBadRequest)
		return err
	}
	return nil
}

// HandleMessageResponse handles both success and error responses
func HandleMessageResponse(w http.ResponseWriter, errorMessage string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewMessageResponse(statusCode, errorMessage)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleValidationResponse writes the per-field validation failures
func HandleValidationResponse(w http.ResponseWriter, statusCode int, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewValidationResponse(statusCode, fields)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleDataResponse handles success responses with data
func HandleDataResponse(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewDataResponse(statusCode, message, data)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
