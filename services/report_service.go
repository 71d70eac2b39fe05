package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"prestacaocontas/models"
	repository "prestacaocontas/repositories"
	"prestacaocontas/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DeliveryInput struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description"`
	Results     string `json:"results"`
}

type EvidenceUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ReportService applies operator actions to the report entries of the active year.
type ReportService struct {
	store    *EntryStore
	registry *RegistryService
	evidence repository.EvidenceRepository
	improver TextImprover
	policy   YearPolicy
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(store *EntryStore, registry *RegistryService, evidence repository.EvidenceRepository, improver TextImprover, policy YearPolicy, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		store:    store,
		registry: registry,
		evidence: evidence,
		improver: improver,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ReportService) Policy() YearPolicy {
	return s.policy
}

// SelectYear switches the working set to year after loading its partition.
func (s *ReportService) SelectYear(ctx context.Context, year int) (models.YearInfo, error) {
	if err := s.policy.CheckSelectable(year); err != nil {
		return models.YearInfo{}, err
	}
	if err := s.store.SelectYear(ctx, year); err != nil {
		return models.YearInfo{}, err
	}
	s.logger.Info("report year selected", zap.Int("year", year), zap.String("state", s.policy.State(year).String()))
	return s.policy.Info(year, year), nil
}

func (s *ReportService) ActiveYear() models.YearInfo {
	year := s.store.ActiveYear()
	return s.policy.Info(year, year)
}

func (s *ReportService) Years() []models.YearInfo {
	return s.policy.Years(s.store.ActiveYear())
}

func (s *ReportService) Entries() []models.ReportEntry {
	return s.store.Entries()
}

// SectorEntries works for deactivated sectors as well.
func (s *ReportService) SectorEntries(sectorID string) []models.ReportEntry {
	return s.store.EntriesForSector(sectorID)
}

func (s *ReportService) Entry(actionID, sectorID string) (models.ReportEntry, error) {
	entry, ok := s.store.Find(actionID, sectorID)
	if !ok {
		return models.ReportEntry{}, fmt.Errorf("entry %s/%s: %w", actionID, sectorID, ErrNotFound)
	}
	return entry, nil
}

// Aggregator snapshots the working set and registries.
func (s *ReportService) Aggregator() *Aggregator {
	state := s.registry.State()
	return NewAggregator(s.store.Entries(), state.Sectors, state.Actions)
}

func (s *ReportService) checkPair(actionID, sectorID string) error {
	if _, err := s.registry.Action(actionID); err != nil {
		return err
	}
	if _, err := s.registry.Sector(sectorID); err != nil {
		return err
	}
	return nil
}

func (s *ReportService) mutate(ctx context.Context, actionID, sectorID string, fn func(entry *models.ReportEntry) error) (models.ReportEntry, error) {
	if err := s.checkPair(actionID, sectorID); err != nil {
		return models.ReportEntry{}, err
	}

	var saved models.ReportEntry
	err := s.store.Mutate(ctx, actionID, sectorID, func(year int, current *models.ReportEntry) (models.ReportEntry, error) {
		if err := s.policy.CheckWritable(year); err != nil {
			return models.ReportEntry{}, err
		}
		entry := models.ReportEntry{ActionID: actionID, SectorID: sectorID, Deliveries: []models.DeliveryItem{}}
		if current != nil {
			entry = *current
		}
		if err := fn(&entry); err != nil {
			return models.ReportEntry{}, err
		}
		entry.LastUpdated = s.now().UnixMilli()
		saved = entry
		return entry, nil
	})
	return saved, err
}

// ToggleActivity flips the has-activities flag of the pair. Deliveries are kept.
func (s *ReportService) ToggleActivity(ctx context.Context, actionID, sectorID string) (models.ReportEntry, error) {
	return s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		entry.SetActive(!entry.Active())
		return nil
	})
}

func (s *ReportService) AddDelivery(ctx context.Context, actionID, sectorID string, input DeliveryInput) (models.DeliveryItem, error) {
	if err := newValidationError(utils.FieldErrors(&input)); err != nil {
		return models.DeliveryItem{}, err
	}

	item := models.DeliveryItem{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Date:        input.Date,
		Description: input.Description,
		Results:     input.Results,
		Attachments: []models.AttachedFile{},
	}
	_, err := s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		entry.Deliveries = append(entry.Deliveries, item)
		entry.SetActive(true)
		return nil
	})
	if err != nil {
		return models.DeliveryItem{}, err
	}
	return item, nil
}

func (s *ReportService) UpdateDelivery(ctx context.Context, actionID, sectorID, deliveryID string, input DeliveryInput) (models.DeliveryItem, error) {
	if err := newValidationError(utils.FieldErrors(&input)); err != nil {
		return models.DeliveryItem{}, err
	}

	var updated models.DeliveryItem
	_, err := s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		idx := entry.FindDelivery(deliveryID)
		if idx < 0 {
			return fmt.Errorf("delivery %s: %w", deliveryID, ErrNotFound)
		}
		d := &entry.Deliveries[idx]
		d.Title = input.Title
		d.Date = input.Date
		d.Description = input.Description
		d.Results = input.Results
		entry.SetActive(true)
		updated = *d
		return nil
	})
	if err != nil {
		return models.DeliveryItem{}, err
	}
	return updated, nil
}

// DeleteDelivery removes a delivery once the operator has confirmed it.
// Its evidence files are removed afterwards; failures there are only logged.
func (s *ReportService) DeleteDelivery(ctx context.Context, actionID, sectorID, deliveryID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	var removed models.DeliveryItem
	_, err := s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		idx := entry.FindDelivery(deliveryID)
		if idx < 0 {
			return fmt.Errorf("delivery %s: %w", deliveryID, ErrNotFound)
		}
		removed = entry.Deliveries[idx]
		entry.Deliveries = append(entry.Deliveries[:idx:idx], entry.Deliveries[idx+1:]...)
		entry.SetActive(true)
		return nil
	})
	if err != nil {
		return err
	}

	for _, file := range removed.Attachments {
		s.deleteEvidence(file)
	}
	return nil
}

func (s *ReportService) deleteEvidence(file models.AttachedFile) {
	if s.evidence == nil || file.PreviewRef == "" {
		return
	}
	if err := s.evidence.Delete(context.Background(), file.PreviewRef); err != nil {
		s.logger.Warn("failed to clean up evidence file",
			zap.String("file_id", file.PreviewRef),
			zap.String("name", file.Name),
			zap.Error(err))
	}
}

// AttachEvidence stores the file and appends its descriptor to the delivery.
// The stored file is removed again if the entry cannot be updated.
func (s *ReportService) AttachEvidence(ctx context.Context, actionID, sectorID, deliveryID string, upload EvidenceUpload, uploadedBy string) (models.AttachedFile, error) {
	if s.evidence == nil {
		return models.AttachedFile{}, fmt.Errorf("evidence storage is not configured")
	}
	if err := s.policy.CheckWritable(s.store.ActiveYear()); err != nil {
		return models.AttachedFile{}, err
	}
	if upload.Filename == "" {
		return models.AttachedFile{}, newValidationError(map[string]string{"Filename": "required"})
	}
	if _, err := s.Entry(actionID, sectorID); err != nil {
		return models.AttachedFile{}, err
	}

	fileID, err := s.evidence.Upload(ctx, upload.Filename, upload.Content, upload.ContentType, uploadedBy)
	if err != nil {
		return models.AttachedFile{}, fmt.Errorf("failed to upload evidence: %w", err)
	}

	file := models.AttachedFile{
		ID:         uuid.NewString(),
		Name:       upload.Filename,
		Size:       upload.Size,
		Type:       upload.ContentType,
		PreviewRef: fileID,
	}
	_, err = s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		idx := entry.FindDelivery(deliveryID)
		if idx < 0 {
			return fmt.Errorf("delivery %s: %w", deliveryID, ErrNotFound)
		}
		entry.Deliveries[idx].Attachments = append(entry.Deliveries[idx].Attachments, file)
		return nil
	})
	if err != nil {
		s.deleteEvidence(file)
		return models.AttachedFile{}, err
	}

	s.logger.Info("evidence attached",
		zap.String("action_id", actionID),
		zap.String("sector_id", sectorID),
		zap.String("delivery_id", deliveryID),
		zap.String("file_id", fileID))
	return file, nil
}

func (s *ReportService) RemoveEvidence(ctx context.Context, actionID, sectorID, deliveryID, attachmentID string) error {
	var removed models.AttachedFile
	_, err := s.mutate(ctx, actionID, sectorID, func(entry *models.ReportEntry) error {
		idx := entry.FindDelivery(deliveryID)
		if idx < 0 {
			return fmt.Errorf("delivery %s: %w", deliveryID, ErrNotFound)
		}
		files := entry.Deliveries[idx].Attachments
		for i := range files {
			if files[i].ID == attachmentID {
				removed = files[i]
				entry.Deliveries[idx].Attachments = append(files[:i:i], files[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("attachment %s: %w", attachmentID, ErrNotFound)
	})
	if err != nil {
		return err
	}
	s.deleteEvidence(removed)
	return nil
}

func (s *ReportService) OpenEvidence(ctx context.Context, fileID string) (*repository.EvidenceFile, error) {
	if s.evidence == nil {
		return nil, fmt.Errorf("evidence %s: %w", fileID, ErrNotFound)
	}
	file, err := s.evidence.Open(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrEvidenceNotFound) {
			return nil, fmt.Errorf("evidence %s: %w", fileID, ErrNotFound)
		}
		return nil, err
	}
	return file, nil
}

// ImproveText never fails: the original text comes back when no improvement is available.
func (s *ReportService) ImproveText(ctx context.Context, text string, mode ImproveMode) (string, bool) {
	return ImproveText(ctx, s.improver, text, mode)
}

// SectorReport builds the printable report of a sector for the active year.
func (s *ReportService) SectorReport(sectorID string) (models.SectorReport, error) {
	sector, err := s.registry.Sector(sectorID)
	if err != nil {
		return models.SectorReport{}, err
	}
	state := s.registry.State()
	year := s.store.ActiveYear()
	return BuildSectorReport(year, state.Config, sector, state.Actions, s.store.EntriesForSector(sectorID), s.now()), nil
}
