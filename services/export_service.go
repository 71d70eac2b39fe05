package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"prestacaocontas/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Resumo"
	evidenceSheet = "Anexo I"
	maxSheetName  = 31
)

var reportHeader = []interface{}{"Nº", "Entrega", "Período", "Descrição", "Resultados", "Evidências"}

// ExportService renders accountability reports as XLSX workbooks.
type ExportService struct {
	reports  *ReportService
	registry *RegistryService
}

func NewExportService(reports *ReportService, registry *RegistryService) *ExportService {
	return &ExportService{
		reports:  reports,
		registry: registry,
	}
}

type sheetStyles struct {
	title  int
	bold   int
	header int
	wrap   int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return st, err
	}
	if st.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E3A8A"}},
	}); err != nil {
		return st, err
	}
	if st.wrap, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}); err != nil {
		return st, err
	}
	return st, nil
}

// SheetName turns a sector short name into a valid, unique worksheet name.
func SheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Setor"
	}
	clean = truncateRunes(clean, maxSheetName)

	candidate := clean
	for i := 2; used[candidate]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(clean, maxSheetName-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ExportSector renders the report of one sector plus its evidence annex.
func (s *ExportService) ExportSector(sectorID string) (*excelize.File, error) {
	report, err := s.reports.SectorReport(sectorID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create workbook styles: %w", err)
	}

	used := map[string]bool{}
	name := SheetName(report.Sector.ShortName, used)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSectorSheet(f, name, report, styles); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeEvidenceSheet(f, report.Evidences, styles); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// ExportConsolidated renders the overview summary followed by one sheet per active sector.
func (s *ExportService) ExportConsolidated() (*excelize.File, error) {
	agg := s.reports.Aggregator()
	year := s.reports.ActiveYear().Year
	identity := s.registry.Config()

	f := excelize.NewFile()
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create workbook styles: %w", err)
	}

	used := map[string]bool{summarySheet: true, evidenceSheet: true}
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, year, identity, agg, styles); err != nil {
		f.Close()
		return nil, err
	}

	var evidences []models.EvidenceRecord
	for _, row := range agg.Overview() {
		report, err := s.reports.SectorReport(row.Sector.ID)
		if err != nil {
			f.Close()
			return nil, err
		}
		name := SheetName(row.Sector.ShortName, used)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSectorSheet(f, name, report, styles); err != nil {
			f.Close()
			return nil, err
		}
		evidences = append(evidences, report.Evidences...)
	}

	if err := writeEvidenceSheet(f, evidences, styles); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeIdentity(f *excelize.File, sheet string, identity models.AppConfig, styles sheetStyles) error {
	lines := []string{identity.InstitutionName, identity.DepartmentName, identity.SubDepartmentName}
	for i, line := range lines {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(sheet, cell, line); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, "A1", "A1", styles.title)
}

func writeSectorSheet(f *excelize.File, sheet string, report models.SectorReport, styles sheetStyles) error {
	if err := writeIdentity(f, sheet, report.Identity, styles); err != nil {
		return err
	}

	title := fmt.Sprintf("Relatório de Prestação de Contas %d", report.Year)
	if err := f.SetCellValue(sheet, "A5", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A5", "A5", styles.title); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A6", report.Sector.Name); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A7", "Gerado em: "+report.GeneratedAt.Format("02/01/2006")); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A9", &reportHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A9", "F9", styles.header); err != nil {
		return err
	}

	row := 10
	if report.Empty() {
		return f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Nenhuma atividade registrada para este período.")
	}

	for _, section := range report.Sections {
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{section.Number + ".", section.Action.Title}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, fmt.Sprintf("B%d", row), styles.bold); err != nil {
			return err
		}
		row++

		for _, nd := range section.Deliveries {
			d := nd.Delivery
			files := make([]string, 0, len(d.Attachments))
			for _, a := range d.Attachments {
				files = append(files, a.Name)
			}
			values := []interface{}{nd.Number, d.Title, d.Date, d.Description, d.Results, strings.Join(files, "\n")}
			cell := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, fmt.Sprintf("F%d", row), styles.wrap); err != nil {
				return err
			}
			row++
		}
	}

	widths := map[string]float64{"A": 8, "B": 40, "C": 14, "D": 60, "E": 60, "F": 30}
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, year int, identity models.AppConfig, agg *Aggregator, styles sheetStyles) error {
	sheet := summarySheet
	if err := writeIdentity(f, sheet, identity, styles); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A5", fmt.Sprintf("Resumo de Desempenho por Diretoria %d", year)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A5", "A5", styles.title); err != nil {
		return err
	}

	header := []interface{}{"Sigla", "Diretoria / Setor", "Concluídas", "Total", "Progresso (%)", "Entregas Totais"}
	if err := f.SetSheetRow(sheet, "A7", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A7", "F7", styles.header); err != nil {
		return err
	}

	row := 8
	for _, r := range agg.Overview() {
		values := []interface{}{r.Sector.ShortName, r.Sector.Name, r.Progress.Completed, r.Progress.Total, r.Progress.Percentage, r.Deliveries}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	stats := agg.Stats(models.OverviewTarget())
	row++
	footer := []interface{}{"Cobertura", fmt.Sprintf("%d de %d metas", stats.Coverage.Achieved, stats.Coverage.Possible), stats.Coverage.Percentage}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &footer); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "B", "B", 55); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "F", 16)
}

func writeEvidenceSheet(f *excelize.File, evidences []models.EvidenceRecord, styles sheetStyles) error {
	if len(evidences) == 0 {
		return nil
	}
	if _, err := f.NewSheet(evidenceSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(evidenceSheet, "A1", "Anexo I - Relação de Evidências e Documentos"); err != nil {
		return err
	}
	if err := f.SetCellStyle(evidenceSheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	header := []interface{}{"Ação", "Entrega", "Arquivo"}
	if err := f.SetSheetRow(evidenceSheet, "A3", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(evidenceSheet, "A3", "C3", styles.header); err != nil {
		return err
	}
	for i, ev := range evidences {
		values := []interface{}{ev.ActionID, ev.DeliveryTitle, ev.FileName}
		if err := f.SetSheetRow(evidenceSheet, fmt.Sprintf("A%d", i+4), &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(evidenceSheet, "B", "C", 45)
}
