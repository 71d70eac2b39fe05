package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prestacaocontas/handlers"
	repository "prestacaocontas/repositories"
	"prestacaocontas/routes"
	services "prestacaocontas/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type envelope struct {
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	state := repository.NewMemoryStateRepository()

	registry := services.NewRegistryService(state, nil)
	require.NoError(t, registry.Init(ctx))
	policy := services.NewYearPolicy(2025, []int{2026, 2025, 2024})
	reports := services.NewReportService(services.NewEntryStore(state, nil), registry,
		repository.NewMemoryEvidenceRepository(), nil, policy, nil)
	_, err := reports.SelectYear(ctx, 2025)
	require.NoError(t, err)

	handler := routes.SetupRoutes(routes.Handlers{
		Registry: handlers.NewRegistryHandler(registry),
		Report:   handlers.NewReportHandler(reports),
		Stats:    handlers.NewStatsHandler(reports, registry),
		Export:   handlers.NewExportHandler(reports, services.NewExportService(reports, registry)),
	}, "", nil)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func addDelivery(t *testing.T, server *httptest.Server, actionID, sectorID string) string {
	t.Helper()
	resp, env := do(t, server, http.MethodPost, "/api/entries/"+actionID+"/"+sectorID+"/deliveries", map[string]string{
		"title": "Implantação do novo portal",
		"date":  "Abr/2025",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return item.ID
}

func TestGetConfig(t *testing.T) {
	server := newTestServer(t)

	resp, env := do(t, server, http.MethodGet, "/api/config", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Contains(t, string(env.Data), "Governo do Estado do Tocantins")
}

func TestCreateSectorValidationErrors(t *testing.T) {
	server := newTestServer(t)

	resp, env := do(t, server, http.MethodPost, "/api/sectors", map[string]string{"id": "NEW", "shortName": "NEW", "color": "bg-pink-100"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "required", env.Errors["Name"])
	assert.Equal(t, "sector_color", env.Errors["Color"])
}

func TestDuplicateSectorConflict(t *testing.T) {
	server := newTestServer(t)

	resp, _ := do(t, server, http.MethodPost, "/api/sectors", map[string]string{"id": "DGGT", "shortName": "DGGT", "name": "Dup"})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeliveryLifecycle(t *testing.T) {
	server := newTestServer(t)
	id := addDelivery(t, server, "1", "DGGT")

	resp, env := do(t, server, http.MethodGet, "/api/entries?sector=DGGT", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []struct {
		ActionID   string            `json:"actionId"`
		Deliveries []json.RawMessage `json:"deliveries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Deliveries, 1)

	resp, _ = do(t, server, http.MethodPut, "/api/entries/1/DGGT/deliveries/"+id, map[string]string{"title": "Portal", "date": "Mai/2025"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, server, http.MethodPut, "/api/entries/1/DGGT/deliveries/"+id, map[string]string{"date": "Mai/2025"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, server, http.MethodDelete, "/api/entries/1/DGGT/deliveries/"+id, nil)
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)

	resp, _ = do(t, server, http.MethodDelete, "/api/entries/1/DGGT/deliveries/"+id+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, server, http.MethodDelete, "/api/entries/1/DGGT/deliveries/"+id+"?confirm=true", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoricalYearRejectsWrites(t *testing.T) {
	server := newTestServer(t)

	resp, env := do(t, server, http.MethodPut, "/api/years/active", map[string]int{"year": 2024})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"read_only":true`)

	resp, _ = do(t, server, http.MethodPost, "/api/entries/1/DGGT/deliveries", map[string]string{"title": "x", "date": "Jan/2024"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, server, http.MethodPost, "/api/entries/1/DGGT/toggle", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, server, http.MethodPut, "/api/years/active", map[string]int{"year": 2019})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvidenceUploadAndDownload(t *testing.T) {
	server := newTestServer(t)
	id := addDelivery(t, server, "2", "DISCO")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "ata.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("ata da reunião"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/entries/2/DISCO/deliveries/"+id+"/attachments", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, env := send(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var file struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		PreviewRef string `json:"previewUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &file))
	assert.Equal(t, "ata.txt", file.Name)

	download, err := http.Get(server.URL + "/api/evidence/" + file.PreviewRef + "/download")
	require.NoError(t, err)
	defer download.Body.Close()
	content, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, download.StatusCode)
	assert.Equal(t, "ata da reunião", string(content))
	assert.Contains(t, download.Header.Get("Content-Disposition"), "ata.txt")

	resp, _ = do(t, server, http.MethodDelete, "/api/entries/2/DISCO/deliveries/"+id+"/attachments/"+file.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, server, http.MethodGet, "/api/evidence/"+file.PreviewRef+"/download", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatsTargets(t *testing.T) {
	server := newTestServer(t)
	addDelivery(t, server, "1", "DGGT")

	resp, env := do(t, server, http.MethodGet, "/api/stats?target=sector:DGGT", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalDeliveries int     `json:"total_deliveries"`
		Months          [12]int `json:"months"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalDeliveries)
	assert.Equal(t, 1, stats.Months[3])

	resp, _ = do(t, server, http.MethodGet, "/api/stats?target=settings", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, server, http.MethodGet, "/api/stats?target=sector:NOPE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = do(t, server, http.MethodGet, "/api/rankings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"sectors"`)
}

func TestSectorMoveAndNavigation(t *testing.T) {
	server := newTestServer(t)

	resp, _ := do(t, server, http.MethodPost, "/api/sectors/DINOV/move-up", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := do(t, server, http.MethodGet, "/api/navigation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var targets []struct {
		Kind     string `json:"kind"`
		SectorID string `json:"sectorId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &targets))
	require.Len(t, targets, 7)
	assert.Equal(t, "overview", targets[0].Kind)
	assert.Equal(t, "DINOV", targets[4].SectorID)
	assert.Equal(t, "DINFRA", targets[5].SectorID)
	assert.Equal(t, "settings", targets[6].Kind)
}

func TestImproveTextWithoutCollaborator(t *testing.T) {
	server := newTestServer(t)

	resp, env := do(t, server, http.MethodPost, "/api/improve-text", map[string]string{"text": "texto original", "mode": "actions"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"text":"texto original","improved":false}`, string(env.Data))

	resp, _ = do(t, server, http.MethodPost, "/api/improve-text", map[string]string{"text": "texto", "mode": "summary"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportSectorWorkbook(t *testing.T) {
	server := newTestServer(t)
	addDelivery(t, server, "1", "DGGT")

	resp, err := http.Get(server.URL + "/api/reports/sectors/DGGT/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio_dggt_2025.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("DGGT", "B11")
	require.NoError(t, err)
	assert.Equal(t, "Implantação do novo portal", v)
}

func TestSectorReportPreview(t *testing.T) {
	server := newTestServer(t)
	addDelivery(t, server, "3", "DINFRA")

	resp, env := do(t, server, http.MethodGet, "/api/reports/sectors/DINFRA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"number":"3.1"`)

	resp, _ = do(t, server, http.MethodGet, "/api/reports/sectors/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
