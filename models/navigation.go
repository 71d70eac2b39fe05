package models

import (
	"fmt"
	"strings"
)

type NavigationKind string

const (
	NavigationOverview NavigationKind = "overview"
	NavigationSettings NavigationKind = "settings"
	NavigationSector   NavigationKind = "sector"
)

// NavigationTarget is one of Overview, Settings or Sector(id).
type NavigationTarget struct {
	Kind     NavigationKind `json:"kind"`
	SectorID string         `json:"sectorId,omitempty"`
}

func OverviewTarget() NavigationTarget {
	return NavigationTarget{Kind: NavigationOverview}
}

func SettingsTarget() NavigationTarget {
	return NavigationTarget{Kind: NavigationSettings}
}

func SectorTarget(id string) NavigationTarget {
	return NavigationTarget{Kind: NavigationSector, SectorID: id}
}

func (t NavigationTarget) IsOverview() bool { return t.Kind == NavigationOverview }
func (t NavigationTarget) IsSettings() bool { return t.Kind == NavigationSettings }
func (t NavigationTarget) IsSector() bool   { return t.Kind == NavigationSector }

func (t NavigationTarget) String() string {
	if t.IsSector() {
		return "sector:" + t.SectorID
	}
	return string(t.Kind)
}

// ParseNavigationTarget accepts "overview", "settings" or "sector:<id>".
func ParseNavigationTarget(s string) (NavigationTarget, error) {
	switch s {
	case string(NavigationOverview):
		return OverviewTarget(), nil
	case string(NavigationSettings):
		return SettingsTarget(), nil
	}
	if id, ok := strings.CutPrefix(s, "sector:"); ok && id != "" {
		return SectorTarget(id), nil
	}
	return NavigationTarget{}, fmt.Errorf("invalid navigation target %q", s)
}
