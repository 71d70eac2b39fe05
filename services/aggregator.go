package services

import (
	"math"
	"sort"
	"strings"

	"prestacaocontas/models"
)

// Aggregator derives read-only summaries from one snapshot of entries and registries.
type Aggregator struct {
	entries []models.ReportEntry
	sectors []models.SectorConfig
	actions []models.StrategicAction
}

func NewAggregator(entries []models.ReportEntry, sectors []models.SectorConfig, actions []models.StrategicAction) *Aggregator {
	return &Aggregator{
		entries: entries,
		sectors: sectors,
		actions: actions,
	}
}

func (a *Aggregator) activeActions() []models.StrategicAction {
	var out []models.StrategicAction
	for _, action := range a.actions {
		if action.Active() {
			out = append(out, action)
		}
	}
	return out
}

func (a *Aggregator) activeSectors() []models.SectorConfig {
	var out []models.SectorConfig
	for _, sector := range a.sectors {
		if sector.Active() {
			out = append(out, sector)
		}
	}
	return out
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// SectorProgress counts the active catalog actions that are complete for sectorID.
func (a *Aggregator) SectorProgress(sectorID string) models.Progress {
	actions := a.activeActions()
	completed := 0
	for _, action := range actions {
		if IsComplete(FindEntry(a.entries, action.ID, sectorID)) {
			completed++
		}
	}
	return models.Progress{
		Completed:  completed,
		Total:      len(actions),
		Percentage: percentage(completed, len(actions)),
	}
}

// SectorDeliveryTotal sums deliveries of the sector's active entries.
func (a *Aggregator) SectorDeliveryTotal(sectorID string) int {
	total := 0
	for _, e := range a.entries {
		if e.SectorID == sectorID && e.Active() {
			total += len(e.Deliveries)
		}
	}
	return total
}

func (a *Aggregator) actionDeliveryTotal(actionID string) int {
	total := 0
	for _, e := range a.entries {
		if e.ActionID == actionID && e.Active() {
			total += len(e.Deliveries)
		}
	}
	return total
}

// SectorRanking orders active sectors by delivery total, keeping registry order on ties.
func (a *Aggregator) SectorRanking() []models.SectorRank {
	sectors := a.activeSectors()
	ranking := make([]models.SectorRank, 0, len(sectors))
	for _, sector := range sectors {
		ranking = append(ranking, models.SectorRank{
			Sector:     sector,
			Deliveries: a.SectorDeliveryTotal(sector.ID),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Deliveries > ranking[j].Deliveries
	})
	return ranking
}

// ActionRanking orders every catalog action by delivery total across sectors, stable on ties.
func (a *Aggregator) ActionRanking() []models.ActionRank {
	ranking := make([]models.ActionRank, 0, len(a.actions))
	for _, action := range a.actions {
		ranking = append(ranking, models.ActionRank{
			Action:     action,
			Deliveries: a.actionDeliveryTotal(action.ID),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Deliveries > ranking[j].Deliveries
	})
	return ranking
}

// Coverage counts complete (action, sector) pairs over active actions and the
// sectors in scope: every active sector for Overview, one sector otherwise.
func (a *Aggregator) Coverage(target models.NavigationTarget) models.Coverage {
	var sectorIDs []string
	switch {
	case target.IsSector():
		sectorIDs = []string{target.SectorID}
	case target.IsOverview():
		for _, s := range a.activeSectors() {
			sectorIDs = append(sectorIDs, s.ID)
		}
	}

	actions := a.activeActions()
	achieved := 0
	for _, sectorID := range sectorIDs {
		for _, action := range actions {
			if IsComplete(FindEntry(a.entries, action.ID, sectorID)) {
				achieved++
			}
		}
	}
	possible := len(actions) * len(sectorIDs)
	return models.Coverage{
		Achieved:   achieved,
		Possible:   possible,
		Percentage: percentage(achieved, possible),
	}
}

func (a *Aggregator) entriesFor(target models.NavigationTarget) []models.ReportEntry {
	if !target.IsSector() {
		return a.entries
	}
	var out []models.ReportEntry
	for _, e := range a.entries {
		if e.SectorID == target.SectorID {
			out = append(out, e)
		}
	}
	return out
}

// Stats is the dashboard block for a navigation target.
func (a *Aggregator) Stats(target models.NavigationTarget) models.Stats {
	entries := a.entriesFor(target)
	total := 0
	for _, e := range entries {
		if e.Active() {
			total += len(e.Deliveries)
		}
	}
	return models.Stats{
		Target:          target,
		TotalDeliveries: total,
		Coverage:        a.Coverage(target),
		Months:          MonthlyDistribution(entries),
	}
}

// Overview returns one row per active sector in registry order.
func (a *Aggregator) Overview() []models.OverviewRow {
	sectors := a.activeSectors()
	rows := make([]models.OverviewRow, 0, len(sectors))
	for _, sector := range sectors {
		rows = append(rows, models.OverviewRow{
			Sector:     sector,
			Progress:   a.SectorProgress(sector.ID),
			Deliveries: a.SectorDeliveryTotal(sector.ID),
		})
	}
	return rows
}

var monthTokens = [12][2]string{
	{"jan", "/01"},
	{"fev", "/02"},
	{"mar", "/03"},
	{"abr", "/04"},
	{"mai", "/05"},
	{"jun", "/06"},
	{"jul", "/07"},
	{"ago", "/08"},
	{"set", "/09"},
	{"out", "/10"},
	{"nov", "/11"},
	{"dez", "/12"},
}

// ClassifyMonth maps a free-text date label to a zero-based month index by
// substring match, first match from January on. It returns -1 when nothing matches.
func ClassifyMonth(label string) int {
	s := strings.ToLower(label)
	for i, tokens := range monthTokens {
		if strings.Contains(s, tokens[0]) || strings.Contains(s, tokens[1]) {
			return i
		}
	}
	return -1
}

// MonthlyDistribution counts deliveries of active entries per calendar month.
// Labels that match no month are skipped.
func MonthlyDistribution(entries []models.ReportEntry) [12]int {
	var months [12]int
	for _, e := range entries {
		if !e.Active() {
			continue
		}
		for _, d := range e.Deliveries {
			if idx := ClassifyMonth(d.Date); idx >= 0 {
				months[idx]++
			}
		}
	}
	return months
}
