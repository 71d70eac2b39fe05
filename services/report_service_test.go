package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"prestacaocontas/models"
	repository "prestacaocontas/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	service  *ReportService
	registry *RegistryService
	state    repository.StateRepository
	evidence repository.EvidenceRepository
}

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newReportFixture(t *testing.T, improver TextImprover) *reportFixture {
	t.Helper()
	ctx := context.Background()
	state := repository.NewMemoryStateRepository()
	evidence := repository.NewMemoryEvidenceRepository()

	registry := NewRegistryService(state, nil)
	require.NoError(t, registry.Init(ctx))

	policy := NewYearPolicy(2025, []int{2026, 2025, 2024})
	svc := NewReportService(NewEntryStore(state, nil), registry, evidence, improver, policy, nil)
	svc.now = func() time.Time { return fixedNow }
	_, err := svc.SelectYear(ctx, 2025)
	require.NoError(t, err)

	return &reportFixture{service: svc, registry: registry, state: state, evidence: evidence}
}

func validDelivery() DeliveryInput {
	return DeliveryInput{Title: "Migração do ERP", Date: "Mar/2025", Description: "Migração concluída", Results: "Redução de custos"}
}

func TestAddDelivery(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()

	item, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Empty(t, item.Attachments)

	entry, err := f.service.Entry("1", "DGGT")
	require.NoError(t, err)
	assert.True(t, entry.Active())
	require.Len(t, entry.Deliveries, 1)
	assert.Equal(t, "Migração do ERP", entry.Deliveries[0].Title)
	assert.Equal(t, fixedNow.UnixMilli(), entry.LastUpdated)

	raw, err := f.state.Get(ctx, EntryKey(2025))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"actionId":"1"`)
}

func TestAddDeliveryValidation(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.AddDelivery(ctx, "1", "DGGT", DeliveryInput{Date: "Mar/2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.AddDelivery(ctx, "99", "DGGT", validDelivery())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.AddDelivery(ctx, "1", "NOPE", validDelivery())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.service.Entries())
}

func TestUpdateDelivery(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	item, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	input := validDelivery()
	input.Title = "Migração do ERP - fase 2"
	updated, err := f.service.UpdateDelivery(ctx, "1", "DGGT", item.ID, input)
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "Migração do ERP - fase 2", updated.Title)

	_, err = f.service.UpdateDelivery(ctx, "1", "DGGT", "missing", input)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleActivityKeepsDeliveries(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "2", "DISCO", validDelivery())
	require.NoError(t, err)

	entry, err := f.service.ToggleActivity(ctx, "2", "DISCO")
	require.NoError(t, err)
	assert.False(t, entry.Active())
	assert.Len(t, entry.Deliveries, 1)

	entry, err = f.service.ToggleActivity(ctx, "2", "DISCO")
	require.NoError(t, err)
	assert.True(t, entry.Active())
}

func TestToggleActivityCreatesEntry(t *testing.T) {
	f := newReportFixture(t, nil)

	entry, err := f.service.ToggleActivity(context.Background(), "3", "DINOV")
	require.NoError(t, err)
	assert.False(t, entry.Active(), "an absent entry counts as active, so the first toggle deactivates")
	assert.True(t, IsComplete(&entry))
}

func TestDeleteDeliveryRequiresConfirmation(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	item, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	err = f.service.DeleteDelivery(ctx, "1", "DGGT", item.ID, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	entry, _ := f.service.Entry("1", "DGGT")
	assert.Len(t, entry.Deliveries, 1)

	require.NoError(t, f.service.DeleteDelivery(ctx, "1", "DGGT", item.ID, true))
	entry, _ = f.service.Entry("1", "DGGT")
	assert.Empty(t, entry.Deliveries)
	assert.True(t, entry.Active())
	assert.False(t, IsComplete(&entry))
}

func TestHistoricalYearIsReadOnly(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	info, err := f.service.SelectYear(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, info.ReadOnly)
	assert.Equal(t, "Histórico", info.Label)
	assert.Empty(t, f.service.Entries())

	_, err = f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	assert.ErrorIs(t, err, ErrReadOnlyYear)
	_, err = f.service.ToggleActivity(ctx, "1", "DGGT")
	assert.ErrorIs(t, err, ErrReadOnlyYear)
	_, err = f.service.AttachEvidence(ctx, "1", "DGGT", "x", EvidenceUpload{Filename: "a.pdf", Content: strings.NewReader("a")}, "op")
	assert.ErrorIs(t, err, ErrReadOnlyYear)

	_, err = f.state.Get(ctx, EntryKey(2024))
	assert.ErrorIs(t, err, repository.ErrStateNotFound, "nothing is written to a historical year")

	report, err := f.service.SectorReport("DGGT")
	require.NoError(t, err)
	assert.Equal(t, 2024, report.Year)
}

func TestSelectYearOutsideSet(t *testing.T) {
	f := newReportFixture(t, nil)

	_, err := f.service.SelectYear(context.Background(), 2030)
	assert.ErrorIs(t, err, ErrYearNotSelectable)
	assert.Equal(t, 2025, f.service.ActiveYear().Year)
}

func TestPlanningYearIsWritable(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.SelectYear(ctx, 2026)
	require.NoError(t, err)
	_, err = f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	_, err = f.state.Get(ctx, EntryKey(2026))
	assert.NoError(t, err)
}

func TestEvidenceLifecycle(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	item, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	upload := EvidenceUpload{Filename: "ata.pdf", ContentType: "application/pdf", Size: 7, Content: strings.NewReader("%PDF-1.")}
	file, err := f.service.AttachEvidence(ctx, "1", "DGGT", item.ID, upload, "maria")
	require.NoError(t, err)
	assert.Equal(t, "ata.pdf", file.Name)
	assert.NotEmpty(t, file.PreviewRef)

	entry, _ := f.service.Entry("1", "DGGT")
	require.Len(t, entry.Deliveries[0].Attachments, 1)

	opened, err := f.service.OpenEvidence(ctx, file.PreviewRef)
	require.NoError(t, err)
	content, err := io.ReadAll(opened.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.", string(content))

	require.NoError(t, f.service.RemoveEvidence(ctx, "1", "DGGT", item.ID, file.ID))
	entry, _ = f.service.Entry("1", "DGGT")
	assert.Empty(t, entry.Deliveries[0].Attachments)
	_, err = f.service.OpenEvidence(ctx, file.PreviewRef)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.service.RemoveEvidence(ctx, "1", "DGGT", item.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDeliveryRemovesEvidence(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	item, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)
	file, err := f.service.AttachEvidence(ctx, "1", "DGGT", item.ID,
		EvidenceUpload{Filename: "foto.png", ContentType: "image/png", Content: strings.NewReader("png")}, "maria")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteDelivery(ctx, "1", "DGGT", item.ID, true))

	_, err = f.evidence.Open(ctx, file.PreviewRef)
	assert.ErrorIs(t, err, repository.ErrEvidenceNotFound)
}

func TestAttachEvidenceToMissingDelivery(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	_, err = f.service.AttachEvidence(ctx, "1", "DGGT", "missing",
		EvidenceUpload{Filename: "a.txt", Content: strings.NewReader("a")}, "maria")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.AttachEvidence(ctx, "2", "DGGT", "missing",
		EvidenceUpload{Filename: "a.txt", Content: strings.NewReader("a")}, "maria")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivatedSectorKeepsEntries(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "1", "DINFRA", validDelivery())
	require.NoError(t, err)

	_, err = f.registry.ToggleSector(ctx, "DINFRA")
	require.NoError(t, err)

	assert.Len(t, f.service.SectorEntries("DINFRA"), 1)
	_, err = f.service.Entry("1", "DINFRA")
	assert.NoError(t, err)
	for _, row := range f.service.Aggregator().Overview() {
		assert.NotEqual(t, "DINFRA", row.Sector.ID)
	}
}

func TestReportServiceImproveText(t *testing.T) {
	f := newReportFixture(t, &fakeImprover{result: "Texto aprimorado.", ok: true})

	text, improved := f.service.ImproveText(context.Background(), "texto para melhorar", ImproveActions)
	assert.True(t, improved)
	assert.Equal(t, "Texto aprimorado.", text)
}

func TestSectorReportUsesActiveYearEntries(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "2", "DGGT", validDelivery())
	require.NoError(t, err)
	_, err = f.service.ToggleActivity(ctx, "3", "DGGT")
	require.NoError(t, err)

	report, err := f.service.SectorReport("DGGT")
	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	require.Len(t, report.Sections, 1)
	assert.Equal(t, "2", report.Sections[0].Number)

	_, err = f.service.SectorReport("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAggregatorReflectsRegistry(t *testing.T) {
	f := newReportFixture(t, nil)
	ctx := context.Background()
	_, err := f.service.AddDelivery(ctx, "1", "DGGT", validDelivery())
	require.NoError(t, err)

	progress := f.service.Aggregator().SectorProgress("DGGT")
	assert.Equal(t, models.Progress{Completed: 1, Total: 6, Percentage: 17}, progress)

	_, err = f.registry.ToggleAction(ctx, "6")
	require.NoError(t, err)
	progress = f.service.Aggregator().SectorProgress("DGGT")
	assert.Equal(t, 5, progress.Total)
}
