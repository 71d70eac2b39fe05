package services

import "prestacaocontas/models"

// IsComplete decides whether an (action, sector) pair counts as done.
// A missing entry is incomplete; an entry explicitly marked inactive is complete;
// an active entry is complete once it has at least one delivery.
func IsComplete(entry *models.ReportEntry) bool {
	if entry == nil {
		return false
	}
	if !entry.Active() {
		return true
	}
	return len(entry.Deliveries) > 0
}

// IsReportable reports whether an entry belongs in a printed report.
// Inactive entries are complete but carry no content to print.
func IsReportable(entry *models.ReportEntry) bool {
	return entry != nil && entry.Active() && IsComplete(entry)
}

// FindEntry returns the entry for the pair, or nil.
func FindEntry(entries []models.ReportEntry, actionID, sectorID string) *models.ReportEntry {
	for i := range entries {
		if entries[i].Matches(actionID, sectorID) {
			return &entries[i]
		}
	}
	return nil
}
