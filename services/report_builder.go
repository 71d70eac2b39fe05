package services

import (
	"fmt"
	"sort"
	"time"

	"prestacaocontas/models"
)

// BuildSectorReport assembles the printable report from the sector's entries.
// Only reportable entries appear, in catalog order; entries whose action is no
// longer in the catalog follow, ordered by action ID.
func BuildSectorReport(year int, identity models.AppConfig, sector models.SectorConfig, actions []models.StrategicAction, entries []models.ReportEntry, now time.Time) models.SectorReport {
	report := models.SectorReport{
		Year:        year,
		Identity:    identity,
		Sector:      sector,
		GeneratedAt: now,
		Sections:    []models.ReportSection{},
		Evidences:   []models.EvidenceRecord{},
	}

	known := make(map[string]bool, len(actions))
	for _, action := range actions {
		known[action.ID] = true
		entry := FindEntry(entries, action.ID, sector.ID)
		if !IsReportable(entry) {
			continue
		}
		addSection(&report, action, entry)
	}

	var orphans []models.ReportEntry
	for _, e := range entries {
		if e.SectorID == sector.ID && !known[e.ActionID] && IsReportable(&e) {
			orphans = append(orphans, e)
		}
	}
	sort.SliceStable(orphans, func(i, j int) bool { return orphans[i].ActionID < orphans[j].ActionID })
	for i := range orphans {
		addSection(&report, models.StrategicAction{ID: orphans[i].ActionID, Title: orphans[i].ActionID}, &orphans[i])
	}

	return report
}

func addSection(report *models.SectorReport, action models.StrategicAction, entry *models.ReportEntry) {
	section := models.ReportSection{
		Number:     action.ID,
		Action:     action,
		Deliveries: make([]models.NumberedDelivery, 0, len(entry.Deliveries)),
	}
	for i, d := range entry.Deliveries {
		section.Deliveries = append(section.Deliveries, models.NumberedDelivery{
			Number:   fmt.Sprintf("%s.%d", action.ID, i+1),
			Delivery: d,
		})
		for _, file := range d.Attachments {
			report.Evidences = append(report.Evidences, models.EvidenceRecord{
				ActionID:      action.ID,
				DeliveryTitle: d.Title,
				FileName:      file.Name,
			})
		}
	}
	report.Sections = append(report.Sections, section)
}
