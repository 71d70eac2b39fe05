package routes

import (
	"net/http"

	"prestacaocontas/handlers"
	"prestacaocontas/middlewares"

	"go.uber.org/zap"
)

type Handlers struct {
	Registry *handlers.RegistryHandler
	Report   *handlers.ReportHandler
	Stats    *handlers.StatsHandler
	Export   *handlers.ExportHandler
}

func SetupRoutes(h Handlers, jwtSecret string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Institutional identity and deadlines
	mux.HandleFunc("GET /api/config", h.Registry.GetConfig)
	mux.HandleFunc("PUT /api/config/identity", h.Registry.UpdateIdentity)
	mux.HandleFunc("PUT /api/config/deadlines", h.Registry.UpdateDeadlines)
	mux.HandleFunc("GET /api/config/banner", h.Registry.GetBanner)
	mux.HandleFunc("GET /api/navigation", h.Registry.GetNavigation)

	// Sector registry
	mux.HandleFunc("GET /api/sectors", h.Registry.GetSectors)
	mux.HandleFunc("POST /api/sectors", h.Registry.CreateSector)
	mux.HandleFunc("GET /api/sectors/{id}", h.Registry.GetSector)
	mux.HandleFunc("PUT /api/sectors/{id}", h.Registry.UpdateSector)
	mux.HandleFunc("POST /api/sectors/{id}/toggle", h.Registry.ToggleSector)
	mux.HandleFunc("POST /api/sectors/{id}/move-up", h.Registry.MoveSectorUp)
	mux.HandleFunc("POST /api/sectors/{id}/move-down", h.Registry.MoveSectorDown)

	// Strategic action catalog
	mux.HandleFunc("GET /api/actions", h.Registry.GetActions)
	mux.HandleFunc("POST /api/actions", h.Registry.CreateAction)
	mux.HandleFunc("GET /api/actions/next-id", h.Registry.GetNextActionID)
	mux.HandleFunc("GET /api/actions/{id}", h.Registry.GetAction)
	mux.HandleFunc("PUT /api/actions/{id}", h.Registry.UpdateAction)
	mux.HandleFunc("POST /api/actions/{id}/toggle", h.Registry.ToggleAction)

	// Reporting years
	mux.HandleFunc("GET /api/years", h.Report.GetYears)
	mux.HandleFunc("PUT /api/years/active", h.Report.SelectYear)

	// Report entries and deliveries of the active year
	mux.HandleFunc("GET /api/entries", h.Report.GetEntries)
	mux.HandleFunc("GET /api/entries/{actionId}/{sectorId}", h.Report.GetEntry)
	mux.HandleFunc("POST /api/entries/{actionId}/{sectorId}/toggle", h.Report.ToggleActivity)
	mux.HandleFunc("POST /api/entries/{actionId}/{sectorId}/deliveries", h.Report.AddDelivery)
	mux.HandleFunc("PUT /api/entries/{actionId}/{sectorId}/deliveries/{deliveryId}", h.Report.UpdateDelivery)
	mux.HandleFunc("DELETE /api/entries/{actionId}/{sectorId}/deliveries/{deliveryId}", h.Report.DeleteDelivery)
	// Evidence files
	mux.HandleFunc("POST /api/entries/{actionId}/{sectorId}/deliveries/{deliveryId}/attachments", h.Report.UploadEvidence)
	mux.HandleFunc("DELETE /api/entries/{actionId}/{sectorId}/deliveries/{deliveryId}/attachments/{attachmentId}", h.Report.DeleteEvidence)
	mux.HandleFunc("GET /api/evidence/{fileId}/download", h.Report.DownloadEvidence)
	mux.HandleFunc("POST /api/improve-text", h.Report.ImproveText)

	// Dashboard
	mux.HandleFunc("GET /api/stats", h.Stats.GetStats)
	mux.HandleFunc("GET /api/stats/sectors/{id}", h.Stats.GetSectorProgress)
	mux.HandleFunc("GET /api/rankings", h.Stats.GetRankings)
	mux.HandleFunc("GET /api/overview", h.Stats.GetOverview)

	// Printable reports
	mux.HandleFunc("GET /api/reports/sectors/{id}", h.Export.GetSectorReport)
	mux.HandleFunc("GET /api/reports/sectors/{id}/export", h.Export.ExportSector)
	mux.HandleFunc("GET /api/reports/consolidated/export", h.Export.ExportConsolidated)

	if logger == nil {
		logger = zap.NewNop()
	}
	return middlewares.OperatorMiddleware(jwtSecret)(middlewares.LoggingMiddleware(logger)(mux))
}
