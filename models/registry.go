package models

type StrategicAction struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"action" validate:"required"`
	Description string `json:"description" validate:"required"`
	StartYear   int    `json:"startYear" validate:"omitempty,min=2000,max=2100"`
	EndYear     int    `json:"endYear" validate:"omitempty,min=2000,max=2100"`
	Responsible string `json:"responsible"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (a *StrategicAction) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

type SectorConfig struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	ShortName      string   `json:"shortName" validate:"required"`
	Color          string   `json:"color" validate:"required,sector_color"`
	SubDepartments []string `json:"subDepartments,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

func (s *SectorConfig) Active() bool {
	return s.IsActive == nil || *s.IsActive
}

// SectorColors is the fixed palette offered for sectors.
var SectorColors = []string{
	"bg-blue-900",
	"bg-blue-700",
	"bg-blue-600",
	"bg-yellow-600",
	"bg-green-600",
	"bg-indigo-600",
}

const DefaultSectorColor = "bg-blue-600"

func IsSectorColor(color string) bool {
	for _, c := range SectorColors {
		if c == color {
			return true
		}
	}
	return false
}

// MoveUp returns a copy of sectors with the sector at index swapped with its predecessor.
// Out-of-range or first-position moves return an unchanged copy.
func MoveUp(sectors []SectorConfig, index int) []SectorConfig {
	return swapSectors(sectors, index, index-1)
}

// MoveDown is the mirror of MoveUp.
func MoveDown(sectors []SectorConfig, index int) []SectorConfig {
	return swapSectors(sectors, index, index+1)
}

func swapSectors(sectors []SectorConfig, i, j int) []SectorConfig {
	out := make([]SectorConfig, len(sectors))
	copy(out, sectors)
	if i < 0 || i >= len(out) || j < 0 || j >= len(out) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}

func IndexOfSector(sectors []SectorConfig, id string) int {
	for i := range sectors {
		if sectors[i].ID == id {
			return i
		}
	}
	return -1
}

func IndexOfAction(actions []StrategicAction, id string) int {
	for i := range actions {
		if actions[i].ID == id {
			return i
		}
	}
	return -1
}
