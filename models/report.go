package models

type AttachedFile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	PreviewRef string `json:"previewUrl,omitempty"` // evidence repository file ID
}

type DeliveryItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title" validate:"required"`
	Date        string         `json:"date" validate:"required"` // free text, e.g. "Março/2025"
	Description string         `json:"description"`
	Results     string         `json:"results"`
	Attachments []AttachedFile `json:"attachments"`
}

// ReportEntry is the single record for one (action, sector) pair within a fiscal year.
// A nil HasActivities is read as active.
type ReportEntry struct {
	ActionID      string         `json:"actionId"`
	SectorID      string         `json:"sectorId"`
	Deliveries    []DeliveryItem `json:"deliveries"`
	HasActivities *bool          `json:"hasActivities,omitempty"`
	LastUpdated   int64          `json:"lastUpdated"` // unix milliseconds
}

// Active reports whether the entry claims activity for the year.
func (e *ReportEntry) Active() bool {
	return e.HasActivities == nil || *e.HasActivities
}

func (e *ReportEntry) SetActive(active bool) {
	e.HasActivities = &active
}

func (e *ReportEntry) Matches(actionID, sectorID string) bool {
	return e.ActionID == actionID && e.SectorID == sectorID
}

// FindDelivery returns the index of the delivery with the given ID, or -1.
func (e *ReportEntry) FindDelivery(id string) int {
	for i := range e.Deliveries {
		if e.Deliveries[i].ID == id {
			return i
		}
	}
	return -1
}

// UpsertEntry drops any entry for the same (action, sector) pair and appends entry.
// The input slice is not modified.
func UpsertEntry(entries []ReportEntry, entry ReportEntry) []ReportEntry {
	out := make([]ReportEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Matches(entry.ActionID, entry.SectorID) {
			continue
		}
		out = append(out, e)
	}
	return append(out, entry)
}

func BoolPtr(v bool) *bool {
	return &v
}
