package services

import (
	"fmt"
	"sort"

	"prestacaocontas/models"
)

type YearState int

const (
	YearHistorical YearState = iota
	YearCurrent
	YearPlanning
)

func (s YearState) String() string {
	switch s {
	case YearHistorical:
		return "historical"
	case YearCurrent:
		return "current"
	case YearPlanning:
		return "planning"
	}
	return "unknown"
}

// Label is the name shown in the year selector.
func (s YearState) Label() string {
	switch s {
	case YearHistorical:
		return "Histórico"
	case YearCurrent:
		return "Em Execução"
	case YearPlanning:
		return "Planejamento"
	}
	return ""
}

// YearPolicy decides which fiscal years can be selected and edited.
type YearPolicy struct {
	OperatingYear int
	Selectable    []int
}

func NewYearPolicy(operatingYear int, selectable []int) YearPolicy {
	years := append([]int(nil), selectable...)
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return YearPolicy{OperatingYear: operatingYear, Selectable: years}
}

func (p YearPolicy) State(year int) YearState {
	switch {
	case year < p.OperatingYear:
		return YearHistorical
	case year > p.OperatingYear:
		return YearPlanning
	}
	return YearCurrent
}

func (p YearPolicy) ReadOnly(year int) bool {
	return p.State(year) == YearHistorical
}

func (p YearPolicy) IsSelectable(year int) bool {
	for _, y := range p.Selectable {
		if y == year {
			return true
		}
	}
	return false
}

// CheckSelectable rejects years outside the configured set.
func (p YearPolicy) CheckSelectable(year int) error {
	if !p.IsSelectable(year) {
		return fmt.Errorf("%w: %d", ErrYearNotSelectable, year)
	}
	return nil
}

// CheckWritable rejects mutations on historical years.
func (p YearPolicy) CheckWritable(year int) error {
	if p.ReadOnly(year) {
		return fmt.Errorf("%w: %d", ErrReadOnlyYear, year)
	}
	return nil
}

func (p YearPolicy) Info(year, activeYear int) models.YearInfo {
	state := p.State(year)
	return models.YearInfo{
		Year:     year,
		State:    state.String(),
		Label:    state.Label(),
		ReadOnly: p.ReadOnly(year),
		Active:   year == activeYear,
	}
}

// Years lists the selectable years, newest first.
func (p YearPolicy) Years(activeYear int) []models.YearInfo {
	out := make([]models.YearInfo, 0, len(p.Selectable))
	for _, y := range p.Selectable {
		out = append(out, p.Info(y, activeYear))
	}
	return out
}
