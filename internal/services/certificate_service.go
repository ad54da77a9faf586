package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"parish-backend/internal/apperr"
	"parish-backend/internal/cache"
	"parish-backend/internal/certificates"
	"parish-backend/internal/matching"
	"parish-backend/internal/metrics"
	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
	"parish-backend/internal/storage"
	"parish-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const pdfMimeType = "application/pdf"

// CertificateOptions carries the configured behaviour of certificate handling.
type CertificateOptions struct {
	Letterhead    certificates.Letterhead
	UploadLimit   int64         // bytes, 0 for no limit
	ReminderAfter time.Duration // flag PENDING_UPLOAD certificates older than this, 0 to disable
}

type CertificateService struct {
	Store    repositories.Store
	Renderer certificates.Renderer
	Archive  storage.Archiver // optional
	Clock    timeutil.Clock
	Metrics  *metrics.Metrics
	Registry *cache.RegistryCache
	Options  CertificateOptions
	log      zerolog.Logger
}

func NewCertificateService(store repositories.Store, renderer certificates.Renderer, archive storage.Archiver, clock timeutil.Clock, m *metrics.Metrics, registry *cache.RegistryCache, opts CertificateOptions, log zerolog.Logger) *CertificateService {
	return &CertificateService{
		Store:    store,
		Renderer: renderer,
		Archive:  archive,
		Clock:    clock,
		Metrics:  m,
		Registry: registry,
		Options:  opts,
		log:      log,
	}
}

// Issue creates the certificate for a request and completes the request. A
// request owns at most one certificate.
func (s *CertificateService) Issue(ctx context.Context, requestID string, in *models.IssueCertificateInput) (*models.IssuedCertificate, error) {
	if !in.DeliveryMethod.Valid() {
		return nil, apperr.Required("deliveryMethod", "Choose PICKUP, EMAIL or COURIER.")
	}
	issuedBy := strings.TrimSpace(in.IssuedBy)
	if issuedBy == "" {
		return nil, apperr.Required("issuedBy", "Issuer is required.")
	}
	now := s.Clock.Now()

	var cert *models.IssuedCertificate
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := tx.GetCertificateByRequest(ctx, requestID); err == nil {
			return apperr.ErrAlreadyIssued
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("check existing certificate: %w", err)
		}
		if req.Status.IsTerminal() {
			return apperr.ErrTerminalState
		}

		if req.Category == models.CategoryCertificate {
			if c, ok := matching.CertificateCriteria(req); ok {
				record, err := findRecord(ctx, tx, c)
				if err != nil {
					return err
				}
				if record == nil {
					return apperr.ErrNoMatchingRecord
				}
				if models.Deref(req.RecordID) == "" {
					req.RecordID = &record.ID
				}
			}
		}

		cert = &models.IssuedCertificate{
			ID:             uuid.New().String(),
			RequestID:      req.ID,
			Type:           req.ServiceType,
			RecipientName:  recipientName(req),
			RequesterName:  req.RequesterName,
			DateIssued:     now,
			IssuedBy:       issuedBy,
			DeliveryMethod: in.DeliveryMethod,
			Notes:          trimmed(in.Notes),
			Status:         models.CertificatePendingUpload,
		}
		if err := tx.CreateCertificate(ctx, cert); err != nil {
			return err
		}
		req.Status = models.StatusCompleted
		req.UpdatedAt = now
		return tx.UpdateRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.Issued()
	s.Metrics.Transitioned(string(models.StatusCompleted))
	s.Registry.Invalidate(ctx)
	s.log.Info().
		Str("certificate_id", cert.ID).
		Str("request_id", requestID).
		Str("issued_by", issuedBy).
		Msg("Certificate issued")
	return cert, nil
}

// recipientName is the name printed on the certificate.
func recipientName(req *models.ServiceRequest) string {
	if t, ok := models.SacramentTypeFromService(req.ServiceType); ok && t == models.SacramentMarriage {
		groom, bride := models.Deref(req.MarriageGroomName), models.Deref(req.MarriageBrideName)
		if groom != "" && bride != "" {
			return groom + " & " + bride
		}
		return firstText(models.Deref(req.CertificateRecipientName), req.RequesterName)
	}
	return firstText(models.Deref(req.CertificateRecipientName), truncateRunes(req.Details, 50), req.RequesterName)
}

// Generate renders the certificate PDF from its sacrament record and stores
// it on the certificate. Rendering happens outside the transaction; a
// failure leaves the certificate as it was.
func (s *CertificateService) Generate(ctx context.Context, id, caller string) (*models.IssuedCertificate, error) {
	cert, err := s.Store.GetCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	t, ok := models.SacramentTypeFromService(cert.Type)
	if !ok {
		s.Metrics.GenerationFailed("no_generator")
		return nil, apperr.ErrNoGenerator
	}

	req, err := s.Store.GetRequest(ctx, cert.RequestID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	record, link, err := resolveGenerationRecord(ctx, s.Store, t, req, cert)
	if err != nil {
		return nil, err
	}
	if record == nil {
		s.Metrics.GenerationFailed("no_record")
		return nil, apperr.NoRecordLinked(string(t))
	}

	doc, err := certificates.Build(record, cert, s.Options.Letterhead)
	if err != nil {
		s.Metrics.GenerationFailed("template")
		return nil, err
	}
	start := time.Now()
	pdf, err := s.Renderer.Render(ctx, doc.HTML)
	if err != nil {
		s.Metrics.GenerationFailed("render")
		s.log.Error().Err(err).Str("certificate_id", id).Msg("Certificate rendering failed")
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	s.Metrics.Generated(string(t), time.Since(start))

	uploader := firstText(caller, "Staff")
	err = s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		current, err := tx.GetCertificate(ctx, id)
		if err != nil {
			return err
		}
		setFile(current, doc.FileName, pdfMimeType, pdf, uploader, s.Clock.Now())
		if err := tx.SaveCertificateFile(ctx, current); err != nil {
			return err
		}
		cert = current
		if !link {
			return nil
		}
		r, err := tx.GetRecord(ctx, record.ID)
		if err != nil {
			return err
		}
		if r.RequestID == nil && !r.IsArchived {
			r.RequestID = &cert.RequestID
			r.UpdatedAt = s.Clock.Now()
			return tx.UpdateRecord(ctx, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.archive(ctx, cert)
	s.Registry.Invalidate(ctx)
	s.log.Info().
		Str("certificate_id", id).
		Str("record_id", record.ID).
		Str("file", doc.FileName).
		Msg("Certificate generated")
	return cert, nil
}

// resolveGenerationRecord finds the record behind a certificate: one linked
// to the request, then the request's resolved record, then the most recent
// active record matching the request. link reports that the record came
// from the fallback and has no owning request yet.
func resolveGenerationRecord(ctx context.Context, store repositories.RecordStore, t models.SacramentType, req *models.ServiceRequest, cert *models.IssuedCertificate) (record *models.SacramentRecord, link bool, err error) {
	if req != nil {
		linked, err := store.ListRecords(ctx, models.RecordQuery{Type: t, RequestID: req.ID})
		if err != nil {
			return nil, false, fmt.Errorf("list linked records: %w", err)
		}
		if len(linked) > 0 {
			return linked[0], false, nil
		}
		if id := models.Deref(req.RecordID); id != "" {
			r, err := store.GetRecord(ctx, id)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return nil, false, err
			}
			if r != nil && !r.IsArchived && r.Type == t {
				return r, false, nil
			}
		}
	}

	r, err := findRecord(ctx, store, matching.GenerationCriteria(t, req, cert))
	if err != nil || r == nil {
		return nil, false, err
	}
	return r, r.RequestID == nil, nil
}

func setFile(cert *models.IssuedCertificate, name, mimeType string, data []byte, uploader string, now time.Time) {
	size := int64(len(data))
	cert.Status = models.CertificateUploaded
	cert.FileName = &name
	cert.FileMimeType = &mimeType
	cert.FileSize = &size
	cert.FileData = data
	cert.UploadedAt = &now
	cert.UploadedBy = &uploader
}

// Upload stores a prepared file on the certificate, replacing any generated
// one.
func (s *CertificateService) Upload(ctx context.Context, id string, in *models.UploadCertificateInput) (*models.IssuedCertificate, error) {
	if len(in.Data) == 0 {
		return nil, apperr.Required("file", "Choose a file to upload.")
	}
	if limit := s.Options.UploadLimit; limit > 0 && int64(len(in.Data)) > limit {
		return nil, apperr.Invalid("file", "File is larger than %d MB.", limit/(1024*1024))
	}
	name := firstText(in.FileName, "certificate")
	mimeType := firstText(in.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(in.Data)
	}
	uploader := firstText(in.UploadedBy, "Staff")

	var cert *models.IssuedCertificate
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		current, err := tx.GetCertificate(ctx, id)
		if err != nil {
			return err
		}
		setFile(current, name, mimeType, in.Data, uploader, s.Clock.Now())
		if err := tx.SaveCertificateFile(ctx, current); err != nil {
			return err
		}
		cert = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.archive(ctx, cert)
	s.Registry.Invalidate(ctx)
	s.log.Info().
		Str("certificate_id", id).
		Str("uploaded_by", uploader).
		Int("size", len(in.Data)).
		Msg("Certificate file uploaded")
	return cert, nil
}

// archive keeps an off-site copy when an archive is configured. Failures are
// logged and counted, never returned.
func (s *CertificateService) archive(ctx context.Context, cert *models.IssuedCertificate) {
	if s.Archive == nil {
		return
	}
	err := s.Archive.Store(ctx, cert)
	s.Metrics.Archived(err == nil)
	if err != nil {
		s.log.Warn().Err(err).Str("certificate_id", cert.ID).Msg("Certificate archive copy failed")
	}
}

func (s *CertificateService) Download(ctx context.Context, id string) (*models.CertificateFile, error) {
	cert, err := s.Store.GetCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status != models.CertificateUploaded || len(cert.FileData) == 0 {
		return nil, apperr.ErrFileNotAvailable
	}
	return &models.CertificateFile{
		FileName: firstText(models.Deref(cert.FileName), "certificate"),
		MimeType: firstText(models.Deref(cert.FileMimeType), "application/octet-stream"),
		Data:     cert.FileData,
	}, nil
}

// List returns every certificate without payloads, newest first.
func (s *CertificateService) List(ctx context.Context) ([]*models.IssuedCertificate, error) {
	certs, err := s.Store.ListCertificates(ctx)
	if err != nil {
		return nil, err
	}
	markReminders(certs, s.Clock.Now(), s.Options.ReminderAfter)
	return certs, nil
}

func markReminders(certs []*models.IssuedCertificate, now time.Time, after time.Duration) {
	for _, c := range certs {
		c.FileData = nil
		c.NeedsUploadReminder = after > 0 &&
			c.Status == models.CertificatePendingUpload &&
			now.Sub(c.DateIssued) >= after
	}
}
