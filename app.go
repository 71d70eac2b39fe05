package main

import (
	"context"
	"fmt"

	"prestacaocontas/config"
	services "prestacaocontas/services"

	"go.uber.org/zap"
)

// app holds the services shared by the serve and export commands.
type app struct {
	registry *services.RegistryService
	reports  *services.ReportService
	export   *services.ExportService
}

func newApp(ctx context.Context, cfg *config.Config, store *storage) (*app, error) {
	registry := services.NewRegistryService(store.state, logger)
	if err := registry.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to load registries: %w", err)
	}

	entries := services.NewEntryStore(store.state, logger)
	policy := services.NewYearPolicy(cfg.Years.Operating, cfg.Years.Selectable)

	var improver services.TextImprover
	if cfg.GenAI.APIKey != "" {
		gemini, err := services.NewGeminiImprover(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, logger)
		if err != nil {
			logger.Warn("text improvement disabled", zap.Error(err))
		} else {
			improver = gemini
		}
	} else {
		logger.Info("no GenAI API key configured, text improvement disabled")
	}

	reports := services.NewReportService(entries, registry, store.evidence, improver, policy, logger)
	if _, err := reports.SelectYear(ctx, cfg.Years.Operating); err != nil {
		return nil, fmt.Errorf("failed to load year %d: %w", cfg.Years.Operating, err)
	}

	return &app{
		registry: registry,
		reports:  reports,
		export:   services.NewExportService(reports, registry),
	}, nil
}
