package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"prestacaocontas/models"
	repository "prestacaocontas/repositories"

	"go.uber.org/zap"
)

// EntryKey is the storage key of the report entry partition for year.
func EntryKey(year int) string {
	return fmt.Sprintf("stif_report_%d_v2", year)
}

// EntryStore keeps the working set of report entries for the active fiscal year
// and persists every change to that year's partition.
type EntryStore struct {
	repo   repository.StateRepository
	logger *zap.Logger

	mu      sync.Mutex
	year    int
	entries []models.ReportEntry
}

func NewEntryStore(repo repository.StateRepository, logger *zap.Logger) *EntryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryStore{
		repo:    repo,
		logger:  logger,
		entries: []models.ReportEntry{},
	}
}

// Load reads the partition for year. A missing or unparsable partition yields an
// empty slice; the stored blob is left untouched.
func (s *EntryStore) Load(ctx context.Context, year int) ([]models.ReportEntry, error) {
	raw, err := s.repo.Get(ctx, EntryKey(year))
	if errors.Is(err, repository.ErrStateNotFound) {
		return []models.ReportEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []models.ReportEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("failed to parse saved report data, starting empty",
			zap.Int("year", year),
			zap.String("key", EntryKey(year)),
			zap.Error(err))
		return []models.ReportEntry{}, nil
	}
	if entries == nil {
		entries = []models.ReportEntry{}
	}
	return entries, nil
}

// Save replaces the whole partition for year.
func (s *EntryStore) Save(ctx context.Context, year int, entries []models.ReportEntry) error {
	if entries == nil {
		entries = []models.ReportEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode report entries: %w", err)
	}
	if err := s.repo.Put(ctx, EntryKey(year), raw); err != nil {
		return err
	}
	return nil
}

// SelectYear loads year and makes it the active working set.
func (s *EntryStore) SelectYear(ctx context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Load(ctx, year)
	if err != nil {
		return err
	}
	s.year = year
	s.entries = entries
	s.logger.Debug("selected report year", zap.Int("year", year), zap.Int("entries", len(entries)))
	return nil
}

func (s *EntryStore) ActiveYear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

// Snapshot returns the active year and a copy of its entries.
func (s *EntryStore) Snapshot() (int, []models.ReportEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, cloneEntries(s.entries)
}

func (s *EntryStore) Entries() []models.ReportEntry {
	_, entries := s.Snapshot()
	return entries
}

// EntriesForSector returns every entry recorded for sectorID in the active year,
// whether or not the sector is still active.
func (s *EntryStore) EntriesForSector(sectorID string) []models.ReportEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ReportEntry{}
	for _, e := range s.entries {
		if e.SectorID == sectorID {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}

func (s *EntryStore) Find(actionID, sectorID string) (models.ReportEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := FindEntry(s.entries, actionID, sectorID); e != nil {
		return cloneEntry(*e), true
	}
	return models.ReportEntry{}, false
}

// Upsert replaces the entry for the same (action, sector) pair in the active year.
func (s *EntryStore) Upsert(ctx context.Context, entry models.ReportEntry) error {
	return s.Mutate(ctx, entry.ActionID, entry.SectorID, func(year int, _ *models.ReportEntry) (models.ReportEntry, error) {
		return entry, nil
	})
}

// MutateFunc receives the active year and the current entry (nil when absent)
// and returns the entry to store.
type MutateFunc func(year int, current *models.ReportEntry) (models.ReportEntry, error)

// Mutate applies fn to the pair and persists the result to the active year's
// partition under one lock. The in-memory set only changes if the write succeeds.
func (s *EntryStore) Mutate(ctx context.Context, actionID, sectorID string, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *models.ReportEntry
	if e := FindEntry(s.entries, actionID, sectorID); e != nil {
		c := cloneEntry(*e)
		current = &c
	}

	next, err := fn(s.year, current)
	if err != nil {
		return err
	}
	next.ActionID = actionID
	next.SectorID = sectorID

	updated := models.UpsertEntry(s.entries, next)
	if err := s.Save(ctx, s.year, updated); err != nil {
		return err
	}
	s.entries = updated
	return nil
}

func cloneEntries(entries []models.ReportEntry) []models.ReportEntry {
	out := make([]models.ReportEntry, len(entries))
	for i, e := range entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e models.ReportEntry) models.ReportEntry {
	if e.HasActivities != nil {
		e.HasActivities = models.BoolPtr(*e.HasActivities)
	}
	if e.Deliveries != nil {
		deliveries := make([]models.DeliveryItem, len(e.Deliveries))
		for i, d := range e.Deliveries {
			if d.Attachments != nil {
				d.Attachments = append([]models.AttachedFile(nil), d.Attachments...)
			}
			deliveries[i] = d
		}
		e.Deliveries = deliveries
	}
	return e
}
