package models

import (
	"strings"
	"time"
)

type AppConfig struct {
	InstitutionName   string    `json:"institutionName" validate:"required"`
	DepartmentName    string    `json:"departmentName" validate:"required"`
	SubDepartmentName string    `json:"subDepartmentName"`
	LogoURL           string    `json:"logoUrl,omitempty"`
	Deadlines         Deadlines `json:"deadlines"`
}

type Deadlines struct {
	SectorDeadline string `json:"sectorDeadline" validate:"omitempty,datetime=2006-01-02"`
	FinalDeadline  string `json:"finalDeadline" validate:"omitempty,datetime=2006-01-02"`
	ShowBanner     bool   `json:"showBanner"`
}

// DaysUntilSectorDeadline counts whole calendar days from now to the sector-phase cutoff.
// ok is false when the banner is hidden or no valid deadline is set.
func (d Deadlines) DaysUntilSectorDeadline(now time.Time) (days int, ok bool) {
	if !d.ShowBanner || strings.TrimSpace(d.SectorDeadline) == "" {
		return 0, false
	}
	deadline, err := time.Parse("2006-01-02", d.SectorDeadline)
	if err != nil {
		return 0, false
	}
	// Calendar dates compared at UTC midnight, where every day is 24h.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(deadline.Sub(today) / (24 * time.Hour)), true
}
