package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prestacaocontas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(&models.DeliveryItem{Title: "Entrega", Date: "Jan/2025"}))

	fields := FieldErrors(&models.SectorConfig{ID: "A", Name: "Setor", ShortName: "S", Color: "purple"})
	assert.Equal(t, map[string]string{"Color": "sector_color"}, fields)
}

func TestDecodeAndValidate(t *testing.T) {
	var item models.DeliveryItem
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Entrega"}`))

	err := DecodeAndValidate(rec, req, &item)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body models.ValidationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "required", body.Errors["Date"])
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	var item models.DeliveryItem
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))

	assert.Error(t, DecodeJSON(rec, req, &item))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDataResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleDataResponse(rec, "ok", map[string]int{"year": 2025}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status_code":201,"message":"ok","data":{"year":2025}}`, rec.Body.String())
}
