package models

type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type Coverage struct {
	Achieved   int `json:"achieved"`
	Possible   int `json:"possible"`
	Percentage int `json:"percentage"`
}

type SectorRank struct {
	Sector     SectorConfig `json:"sector"`
	Deliveries int          `json:"deliveries"`
}

type ActionRank struct {
	Action     StrategicAction `json:"action"`
	Deliveries int             `json:"deliveries"`
}

type Stats struct {
	Target          NavigationTarget `json:"target"`
	TotalDeliveries int              `json:"total_deliveries"`
	Coverage        Coverage         `json:"coverage"`
	Months          [12]int          `json:"months"`
}

type OverviewRow struct {
	Sector     SectorConfig `json:"sector"`
	Progress   Progress     `json:"progress"`
	Deliveries int          `json:"deliveries"`
}

type YearInfo struct {
	Year     int    `json:"year"`
	State    string `json:"state"`
	Label    string `json:"label"`
	ReadOnly bool   `json:"read_only"`
	Active   bool   `json:"active"`
}
