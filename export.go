package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	exportSector string
	exportYear   int
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report workbook (XLSX) to disk",
	Long: `Renders the accountability report of one sector (--sector) or the consolidated
report of all active sectors to an XLSX file.

Example:
  prestacaocontas export --sector DGGT --year 2025 --out dggt.xlsx`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSector, "sector", "", "sector id (consolidated report when empty)")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "reporting year (operating year when zero)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.close()

	a, err := newApp(ctx, cfg, store)
	if err != nil {
		return err
	}
	if exportYear != 0 && exportYear != a.reports.ActiveYear().Year {
		if _, err := a.reports.SelectYear(ctx, exportYear); err != nil {
			return err
		}
	}
	year := a.reports.ActiveYear().Year

	out := exportOut
	if out == "" {
		if exportSector != "" {
			out = fmt.Sprintf("relatorio_%s_%d.xlsx", exportSector, year)
		} else {
			out = fmt.Sprintf("relatorio_consolidado_%d.xlsx", year)
		}
	}

	var f *excelize.File
	if exportSector != "" {
		f, err = a.export.ExportSector(exportSector)
	} else {
		f, err = a.export.ExportConsolidated()
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	logger.Info("report exported", zap.String("file", out), zap.Int("year", year), zap.String("sector", exportSector))
	return nil
}
