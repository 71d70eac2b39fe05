package models

import "time"

// SectorReport is the printable accountability report for one sector and year.
type SectorReport struct {
	Year        int              `json:"year"`
	Identity    AppConfig        `json:"identity"`
	Sector      SectorConfig     `json:"sector"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sections    []ReportSection  `json:"sections"`
	Evidences   []EvidenceRecord `json:"evidences"`
}

type ReportSection struct {
	Number     string             `json:"number"`
	Action     StrategicAction    `json:"action"`
	Deliveries []NumberedDelivery `json:"deliveries"`
}

type NumberedDelivery struct {
	Number   string       `json:"number"` // "<action>.<n>"
	Delivery DeliveryItem `json:"delivery"`
}

// EvidenceRecord is one row of the evidence annex.
type EvidenceRecord struct {
	ActionID      string `json:"action_id"`
	DeliveryTitle string `json:"delivery_title"`
	FileName      string `json:"file_name"`
}

func (r *SectorReport) Empty() bool {
	return len(r.Sections) == 0
}
