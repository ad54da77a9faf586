package services

import (
	"context"
	"strings"

	"parish-backend/internal/apperr"
	"parish-backend/internal/cache"
	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
	"parish-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type RecordService struct {
	Store    repositories.Store
	Clock    timeutil.Clock
	Registry *cache.RegistryCache
	log      zerolog.Logger
}

func NewRecordService(store repositories.Store, clock timeutil.Clock, registry *cache.RegistryCache, log zerolog.Logger) *RecordService {
	return &RecordService{
		Store:    store,
		Clock:    clock,
		Registry: registry,
		log:      log,
	}
}

func (s *RecordService) Create(ctx context.Context, d *models.RecordDetails) (*models.SacramentRecord, error) {
	now := s.Clock.Now()
	r := &models.SacramentRecord{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := fillRecord(r, d); err != nil {
		return nil, err
	}
	if err := s.Store.CreateRecord(ctx, r); err != nil {
		return nil, err
	}
	s.Registry.Invalidate(ctx)
	s.log.Info().Str("record_id", r.ID).Str("type", string(r.Type)).Msg("Sacrament record created")
	return r, nil
}

// Update replaces the editable fields of a record. Archive state and the
// owning request are kept.
func (s *RecordService) Update(ctx context.Context, id string, d *models.RecordDetails) (*models.SacramentRecord, error) {
	var updated *models.SacramentRecord
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		current, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		r := &models.SacramentRecord{
			ID:            current.ID,
			IsArchived:    current.IsArchived,
			ArchivedAt:    current.ArchivedAt,
			ArchivedBy:    current.ArchivedBy,
			ArchiveReason: current.ArchiveReason,
			RequestID:     current.RequestID,
			CreatedAt:     current.CreatedAt,
			UpdatedAt:     s.Clock.Now(),
		}
		if err := fillRecord(r, d); err != nil {
			return err
		}
		updated = r
		return tx.UpdateRecord(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.Registry.Invalidate(ctx)
	s.log.Info().Str("record_id", id).Msg("Sacrament record updated")
	return updated, nil
}

// fillRecord validates the admin form and copies it onto r.
func fillRecord(r *models.SacramentRecord, d *models.RecordDetails) error {
	if !d.Type.Valid() {
		return apperr.Invalid("type", "Choose BAPTISM, CONFIRMATION, MARRIAGE or FUNERAL.")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" && d.Type == models.SacramentMarriage {
		groom, bride := strings.TrimSpace(d.GroomName), strings.TrimSpace(d.BrideName)
		if groom != "" && bride != "" {
			name = groom + " & " + bride
		}
	}
	if name == "" {
		return apperr.Required("name", "Name is required.")
	}
	if err := requireText("date", d.Date, "Date is required."); err != nil {
		return err
	}
	date, err := timeutil.ParseDate(d.Date)
	if err != nil {
		return apperr.Invalid("date", "Enter a valid date (YYYY-MM-DD).")
	}
	if err := requireText("officiant", d.Officiant, "Officiant is required."); err != nil {
		return err
	}
	if err := requireText("details", d.Details, "Details are required."); err != nil {
		return err
	}

	r.Name = name
	r.Type = d.Type
	r.Date = date
	r.Officiant = strings.TrimSpace(d.Officiant)
	r.Details = strings.TrimSpace(d.Details)
	if err := applyDetails(r, d); err != nil {
		return err
	}
	return checkBirthDate(r)
}

func (s *RecordService) Get(ctx context.Context, id string) (*models.SacramentRecord, error) {
	return s.Store.GetRecord(ctx, id)
}

func (s *RecordService) List(ctx context.Context, t models.SacramentType, includeArchived bool) ([]*models.SacramentRecord, error) {
	if t != "" && !t.Valid() {
		return nil, apperr.Invalid("type", "Unknown sacrament type %q.", t)
	}
	return s.Store.ListRecords(ctx, models.RecordQuery{Type: t, IncludeArchived: includeArchived})
}

// Archive hides a record from matching and generation. Archiving an archived
// record refreshes its audit fields.
func (s *RecordService) Archive(ctx context.Context, id, caller, reason string) (*models.SacramentRecord, error) {
	var archived *models.SacramentRecord
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		r, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		now := s.Clock.Now()
		by := firstText(caller, "Staff")
		r.IsArchived = true
		r.ArchivedAt = &now
		r.ArchivedBy = &by
		r.ArchiveReason = trimmed(reason)
		r.UpdatedAt = now
		archived = r
		return tx.UpdateRecord(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.Registry.Invalidate(ctx)
	s.log.Info().Str("record_id", id).Str("archived_by", caller).Msg("Sacrament record archived")
	return archived, nil
}

func (s *RecordService) Unarchive(ctx context.Context, id string) (*models.SacramentRecord, error) {
	var restored *models.SacramentRecord
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		r, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		r.IsArchived = false
		r.ArchivedAt = nil
		r.ArchivedBy = nil
		r.ArchiveReason = nil
		r.UpdatedAt = s.Clock.Now()
		restored = r
		return tx.UpdateRecord(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.Registry.Invalidate(ctx)
	s.log.Info().Str("record_id", id).Msg("Sacrament record unarchived")
	return restored, nil
}
