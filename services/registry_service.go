package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"prestacaocontas/models"
	repository "prestacaocontas/repositories"
	"prestacaocontas/utils"

	"go.uber.org/zap"
)

const (
	ConfigKey  = "stif_app_config"
	SectorsKey = "stif_sectors"
	ActionsKey = "stif_strategic_actions"
)

// AppState is the process-wide identity and registry state.
type AppState struct {
	Config  models.AppConfig         `json:"config"`
	Sectors []models.SectorConfig    `json:"sectors"`
	Actions []models.StrategicAction `json:"actions"`
}

type IdentityUpdate struct {
	InstitutionName   string `json:"institutionName" validate:"required"`
	DepartmentName    string `json:"departmentName" validate:"required"`
	SubDepartmentName string `json:"subDepartmentName"`
	LogoURL           string `json:"logoUrl"`
}

type DeadlineBanner struct {
	Visible        bool   `json:"visible"`
	DaysRemaining  int    `json:"days_remaining"`
	SectorDeadline string `json:"sector_deadline"`
}

// RegistryService manages identity, deadlines, sectors and strategic actions.
// Every mutation is persisted before it becomes visible.
type RegistryService struct {
	repo   repository.StateRepository
	logger *zap.Logger

	mu    sync.RWMutex
	state AppState
}

func NewRegistryService(repo repository.StateRepository, logger *zap.Logger) *RegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryService{
		repo:   repo,
		logger: logger,
		state: AppState{
			Config:  models.DefaultAppConfig(),
			Sectors: models.DefaultSectors(),
			Actions: models.DefaultStrategicActions(),
		},
	}
}

// Init loads each registry from storage, keeping the defaults for any that are
// missing or unreadable.
func (s *RegistryService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadInto(ctx, ConfigKey, &s.state.Config); err != nil {
		return err
	}
	if err := s.loadInto(ctx, SectorsKey, &s.state.Sectors); err != nil {
		return err
	}
	if err := s.loadInto(ctx, ActionsKey, &s.state.Actions); err != nil {
		return err
	}
	return nil
}

func (s *RegistryService) loadInto(ctx context.Context, key string, dst interface{}) error {
	raw, err := s.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("failed to parse saved registry, using defaults", zap.String("key", key), zap.Error(err))
		switch v := dst.(type) {
		case *models.AppConfig:
			*v = models.DefaultAppConfig()
		case *[]models.SectorConfig:
			*v = models.DefaultSectors()
		case *[]models.StrategicAction:
			*v = models.DefaultStrategicActions()
		}
	}
	return nil
}

func (s *RegistryService) persist(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.repo.Put(ctx, key, raw)
}

func (s *RegistryService) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AppState{
		Config:  s.state.Config,
		Sectors: append([]models.SectorConfig(nil), s.state.Sectors...),
		Actions: append([]models.StrategicAction(nil), s.state.Actions...),
	}
}

func (s *RegistryService) Config() models.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Config
}

func (s *RegistryService) Sectors() []models.SectorConfig {
	return s.State().Sectors
}

func (s *RegistryService) Actions() []models.StrategicAction {
	return s.State().Actions
}

// Sector looks up a sector by ID, including deactivated ones.
func (s *RegistryService) Sector(id string) (models.SectorConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := models.IndexOfSector(s.state.Sectors, id)
	if idx < 0 {
		return models.SectorConfig{}, fmt.Errorf("sector %s: %w", id, ErrNotFound)
	}
	return s.state.Sectors[idx], nil
}

func (s *RegistryService) Action(id string) (models.StrategicAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := models.IndexOfAction(s.state.Actions, id)
	if idx < 0 {
		return models.StrategicAction{}, fmt.Errorf("strategic action %s: %w", id, ErrNotFound)
	}
	return s.state.Actions[idx], nil
}

// NavigationTargets lists Overview, the active sectors in display order, then Settings.
func (s *RegistryService) NavigationTargets() []models.NavigationTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	targets := []models.NavigationTarget{models.OverviewTarget()}
	for _, sector := range s.state.Sectors {
		if sector.Active() {
			targets = append(targets, models.SectorTarget(sector.ID))
		}
	}
	return append(targets, models.SettingsTarget())
}

func (s *RegistryService) UpdateIdentity(ctx context.Context, update IdentityUpdate) (models.AppConfig, error) {
	if err := newValidationError(utils.FieldErrors(&update)); err != nil {
		return models.AppConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.state.Config
	cfg.InstitutionName = update.InstitutionName
	cfg.DepartmentName = update.DepartmentName
	cfg.SubDepartmentName = update.SubDepartmentName
	cfg.LogoURL = update.LogoURL

	if err := s.persist(ctx, ConfigKey, cfg); err != nil {
		return models.AppConfig{}, err
	}
	s.state.Config = cfg
	return cfg, nil
}

func (s *RegistryService) UpdateDeadlines(ctx context.Context, deadlines models.Deadlines) (models.AppConfig, error) {
	if err := newValidationError(utils.FieldErrors(&deadlines)); err != nil {
		return models.AppConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.state.Config
	cfg.Deadlines = deadlines
	if err := s.persist(ctx, ConfigKey, cfg); err != nil {
		return models.AppConfig{}, err
	}
	s.state.Config = cfg
	return cfg, nil
}

func (s *RegistryService) Banner(now time.Time) DeadlineBanner {
	d := s.Config().Deadlines
	days, ok := d.DaysUntilSectorDeadline(now)
	return DeadlineBanner{
		Visible:        ok,
		DaysRemaining:  days,
		SectorDeadline: d.SectorDeadline,
	}
}

func (s *RegistryService) commitSectors(ctx context.Context, sectors []models.SectorConfig) error {
	if err := s.persist(ctx, SectorsKey, sectors); err != nil {
		return err
	}
	s.state.Sectors = sectors
	return nil
}

func (s *RegistryService) CreateSector(ctx context.Context, sector models.SectorConfig) (models.SectorConfig, error) {
	if sector.Color == "" {
		sector.Color = models.DefaultSectorColor
	}
	if err := newValidationError(utils.FieldErrors(&sector)); err != nil {
		return models.SectorConfig{}, err
	}
	if sector.IsActive == nil {
		sector.IsActive = models.BoolPtr(true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if models.IndexOfSector(s.state.Sectors, sector.ID) >= 0 {
		return models.SectorConfig{}, fmt.Errorf("sector %s: %w", sector.ID, ErrAlreadyExists)
	}
	sectors := append(append([]models.SectorConfig(nil), s.state.Sectors...), sector)
	if err := s.commitSectors(ctx, sectors); err != nil {
		return models.SectorConfig{}, err
	}
	s.logger.Info("sector created", zap.String("sector_id", sector.ID))
	return sector, nil
}

// UpdateSector replaces the editable fields of a sector. The ID cannot change.
func (s *RegistryService) UpdateSector(ctx context.Context, id string, sector models.SectorConfig) (models.SectorConfig, error) {
	if sector.ID != "" && sector.ID != id {
		return models.SectorConfig{}, newValidationError(map[string]string{"ID": "immutable"})
	}
	sector.ID = id
	if err := newValidationError(utils.FieldErrors(&sector)); err != nil {
		return models.SectorConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.IndexOfSector(s.state.Sectors, id)
	if idx < 0 {
		return models.SectorConfig{}, fmt.Errorf("sector %s: %w", id, ErrNotFound)
	}
	if sector.IsActive == nil {
		sector.IsActive = s.state.Sectors[idx].IsActive
	}
	sectors := append([]models.SectorConfig(nil), s.state.Sectors...)
	sectors[idx] = sector
	if err := s.commitSectors(ctx, sectors); err != nil {
		return models.SectorConfig{}, err
	}
	return sector, nil
}

// ToggleSector flips the active flag; sectors are never removed.
func (s *RegistryService) ToggleSector(ctx context.Context, id string) (models.SectorConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.IndexOfSector(s.state.Sectors, id)
	if idx < 0 {
		return models.SectorConfig{}, fmt.Errorf("sector %s: %w", id, ErrNotFound)
	}
	sectors := append([]models.SectorConfig(nil), s.state.Sectors...)
	sectors[idx].IsActive = models.BoolPtr(!sectors[idx].Active())
	if err := s.commitSectors(ctx, sectors); err != nil {
		return models.SectorConfig{}, err
	}
	s.logger.Info("sector status changed", zap.String("sector_id", id), zap.Bool("active", sectors[idx].Active()))
	return sectors[idx], nil
}

func (s *RegistryService) MoveSectorUp(ctx context.Context, id string) ([]models.SectorConfig, error) {
	return s.moveSector(ctx, id, models.MoveUp)
}

func (s *RegistryService) MoveSectorDown(ctx context.Context, id string) ([]models.SectorConfig, error) {
	return s.moveSector(ctx, id, models.MoveDown)
}

func (s *RegistryService) moveSector(ctx context.Context, id string, move func([]models.SectorConfig, int) []models.SectorConfig) ([]models.SectorConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.IndexOfSector(s.state.Sectors, id)
	if idx < 0 {
		return nil, fmt.Errorf("sector %s: %w", id, ErrNotFound)
	}
	sectors := move(s.state.Sectors, idx)
	if err := s.commitSectors(ctx, sectors); err != nil {
		return nil, err
	}
	return append([]models.SectorConfig(nil), sectors...), nil
}

func validateAction(action *models.StrategicAction) error {
	fields := utils.FieldErrors(action)
	if action.StartYear != 0 && action.EndYear != 0 && action.StartYear > action.EndYear {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["EndYear"] = "gtefield"
	}
	return newValidationError(fields)
}

func (s *RegistryService) commitActions(ctx context.Context, actions []models.StrategicAction) error {
	if err := s.persist(ctx, ActionsKey, actions); err != nil {
		return err
	}
	s.state.Actions = actions
	return nil
}

// NextActionID suggests max numeric action ID + 1.
func (s *RegistryService) NextActionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxID := 0
	for _, a := range s.state.Actions {
		if n, err := strconv.Atoi(a.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

func (s *RegistryService) CreateAction(ctx context.Context, action models.StrategicAction) (models.StrategicAction, error) {
	if action.ID == "" {
		action.ID = s.NextActionID()
	}
	if err := validateAction(&action); err != nil {
		return models.StrategicAction{}, err
	}
	if action.IsActive == nil {
		action.IsActive = models.BoolPtr(true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if models.IndexOfAction(s.state.Actions, action.ID) >= 0 {
		return models.StrategicAction{}, fmt.Errorf("strategic action %s: %w", action.ID, ErrAlreadyExists)
	}
	actions := append(append([]models.StrategicAction(nil), s.state.Actions...), action)
	if err := s.commitActions(ctx, actions); err != nil {
		return models.StrategicAction{}, err
	}
	s.logger.Info("strategic action created", zap.String("action_id", action.ID))
	return action, nil
}

func (s *RegistryService) UpdateAction(ctx context.Context, id string, action models.StrategicAction) (models.StrategicAction, error) {
	if action.ID != "" && action.ID != id {
		return models.StrategicAction{}, newValidationError(map[string]string{"ID": "immutable"})
	}
	action.ID = id
	if err := validateAction(&action); err != nil {
		return models.StrategicAction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.IndexOfAction(s.state.Actions, id)
	if idx < 0 {
		return models.StrategicAction{}, fmt.Errorf("strategic action %s: %w", id, ErrNotFound)
	}
	if action.IsActive == nil {
		action.IsActive = s.state.Actions[idx].IsActive
	}
	actions := append([]models.StrategicAction(nil), s.state.Actions...)
	actions[idx] = action
	if err := s.commitActions(ctx, actions); err != nil {
		return models.StrategicAction{}, err
	}
	return action, nil
}

func (s *RegistryService) ToggleAction(ctx context.Context, id string) (models.StrategicAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.IndexOfAction(s.state.Actions, id)
	if idx < 0 {
		return models.StrategicAction{}, fmt.Errorf("strategic action %s: %w", id, ErrNotFound)
	}
	actions := append([]models.StrategicAction(nil), s.state.Actions...)
	actions[idx].IsActive = models.BoolPtr(!actions[idx].Active())
	if err := s.commitActions(ctx, actions); err != nil {
		return models.StrategicAction{}, err
	}
	return actions[idx], nil
}
