package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parish-backend/internal/apperr"
	"parish-backend/internal/cache"
	"parish-backend/internal/matching"
	"parish-backend/internal/metrics"
	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
	"parish-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const submittedMessage = "Your request has been submitted. The parish office will contact you."

type RequestService struct {
	Store    repositories.Store
	Clock    timeutil.Clock
	Metrics  *metrics.Metrics
	Registry *cache.RegistryCache
	log      zerolog.Logger
}

func NewRequestService(store repositories.Store, clock timeutil.Clock, m *metrics.Metrics, registry *cache.RegistryCache, log zerolog.Logger) *RequestService {
	return &RequestService{
		Store:    store,
		Clock:    clock,
		Metrics:  m,
		Registry: registry,
		log:      log,
	}
}

// Submit validates a public request, resolves it against the sacrament
// records and stores it. Requests that cannot be backed by a record are
// stored as REJECTED with an explanatory note rather than failing.
func (s *RequestService) Submit(ctx context.Context, in *models.SubmitRequestInput) (*models.SubmitResult, error) {
	now := s.Clock.Now()
	req, err := buildRequest(in, now)
	if err != nil {
		return nil, err
	}

	err = s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		if err := resolveSubmission(ctx, tx, req, in.ReissueReason); err != nil {
			return err
		}
		return tx.CreateRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	result := &models.SubmitResult{Request: req, Message: submittedMessage}
	outcome := "pending"
	switch {
	case req.Status == models.StatusRejected:
		result.AutoRejected = true
		result.Message = models.Deref(req.AdminNotes)
		outcome = "auto_rejected"
	case req.IsReissue:
		outcome = "reissue"
	}
	s.Metrics.Submitted(string(req.Category), outcome)
	s.log.Info().
		Str("request_id", req.ID).
		Str("kind", string(req.Kind)).
		Str("outcome", outcome).
		Msg("Service request submitted")
	return result, nil
}

func buildRequest(in *models.SubmitRequestInput, now time.Time) (*models.ServiceRequest, error) {
	if err := requireText("requesterName", in.RequesterName, "Name is required."); err != nil {
		return nil, err
	}
	if err := requireText("contactInfo", in.ContactInfo, "Contact information is required."); err != nil {
		return nil, err
	}
	if err := requireText("category", string(in.Category), "Category is required."); err != nil {
		return nil, err
	}
	if err := requireText("serviceType", in.ServiceType, "Service type is required."); err != nil {
		return nil, err
	}
	if !ValidContact(in.ContactInfo) {
		return nil, apperr.ErrInvalidContact
	}
	category := models.RequestCategory(strings.ToUpper(strings.TrimSpace(string(in.Category))))
	if category != models.CategorySacrament && category != models.CategoryCertificate {
		return nil, apperr.Invalid("category", "Category must be SACRAMENT or CERTIFICATE.")
	}

	kind := models.ClassifyRequest(category, in.ServiceType)
	if !kind.DetailsOptional() {
		if err := requireText("details", in.Details, "Details are required."); err != nil {
			return nil, err
		}
	}

	req := &models.ServiceRequest{
		ID:                    uuid.New().String(),
		Category:              category,
		ServiceType:           strings.TrimSpace(in.ServiceType),
		Kind:                  kind,
		RequesterName:         strings.TrimSpace(in.RequesterName),
		ContactInfo:           strings.TrimSpace(in.ContactInfo),
		PreferredDate:         trimmed(in.PreferredDate),
		Details:               strings.TrimSpace(in.Details),
		RequesterRelationship: trimmed(in.RequesterRelationship),
		Status:                models.StatusPending,
		SubmissionDate:        now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := applyKindFields(req, in, now); err != nil {
		return nil, err
	}
	return req, nil
}

// applyKindFields validates and copies the structured fields each kind asks
// for. Dates supplied for other kinds are still parsed so garbage is rejected.
func applyKindFields(req *models.ServiceRequest, in *models.SubmitRequestInput, now time.Time) error {
	var err error
	switch req.Kind {
	case models.KindConfirmation:
		if err = requireText("confirmationCandidateName", in.ConfirmationCandidateName, "Candidate name is required."); err != nil {
			return err
		}
		if err = requireText("confirmationCandidateBirthDate", in.ConfirmationCandidateBirthDate, "Candidate birth date is required."); err != nil {
			return err
		}
	case models.KindFuneral:
		required := []struct{ field, value, message string }{
			{"funeralDeceasedName", in.FuneralDeceasedName, "Name of the deceased is required."},
			{"funeralResidence", in.FuneralResidence, "Residence of the deceased is required."},
			{"funeralDateOfDeath", in.FuneralDateOfDeath, "Date of death is required."},
			{"funeralPlaceOfBurial", in.FuneralPlaceOfBurial, "Place of burial is required."},
			{"requesterRelationship", in.RequesterRelationship, "Relationship to the deceased is required."},
			{"preferredDate", in.PreferredDate, "Preferred funeral date is required."},
		}
		for _, f := range required {
			if err = requireText(f.field, f.value, f.message); err != nil {
				return err
			}
		}
	case models.KindMarriage:
		if err = requireText("marriageGroomName", in.MarriageGroomName, "Groom's name is required."); err != nil {
			return err
		}
		if err = requireText("marriageBrideName", in.MarriageBrideName, "Bride's name is required."); err != nil {
			return err
		}
		if err = requireText("preferredDate", in.PreferredDate, "Preferred wedding date is required."); err != nil {
			return err
		}
	case models.KindMarriageCertificate:
		if err = requireText("marriageGroomName", in.MarriageGroomName, "Groom's name is required."); err != nil {
			return err
		}
		if err = requireText("marriageBrideName", in.MarriageBrideName, "Bride's name is required."); err != nil {
			return err
		}
		if err = requireText("marriageDate", in.MarriageDate, "Date of marriage is required."); err != nil {
			return err
		}
	case models.KindDeathCertificate:
		if err = requireText("certificateRecipientName", in.CertificateRecipientName, "Name of the deceased is required."); err != nil {
			return err
		}
		if err = requireText("certificateRecipientDeathDate", in.CertificateRecipientDeathDate, "Date of death is required."); err != nil {
			return err
		}
		if err = requireText("requesterRelationship", in.RequesterRelationship, "Relationship to the deceased is required."); err != nil {
			return err
		}
	case models.KindBaptismCertificate, models.KindConfirmationCertificate, models.KindOtherCertificate:
		if err = requireText("certificateRecipientName", in.CertificateRecipientName, "Name on the certificate is required."); err != nil {
			return err
		}
	}

	req.ConfirmationCandidateName = trimmed(in.ConfirmationCandidateName)
	req.FuneralDeceasedName = trimmed(in.FuneralDeceasedName)
	req.FuneralResidence = trimmed(in.FuneralResidence)
	req.FuneralPlaceOfBurial = trimmed(in.FuneralPlaceOfBurial)
	req.MarriageGroomName = trimmed(in.MarriageGroomName)
	req.MarriageBrideName = trimmed(in.MarriageBrideName)
	req.CertificateRecipientName = trimmed(in.CertificateRecipientName)

	dates := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"confirmationCandidateBirthDate", in.ConfirmationCandidateBirthDate, &req.ConfirmationCandidateBirthDate},
		{"funeralDateOfDeath", in.FuneralDateOfDeath, &req.FuneralDateOfDeath},
		{"marriageDate", in.MarriageDate, &req.MarriageDate},
		{"certificateRecipientBirthDate", in.CertificateRecipientBirthDate, &req.CertificateRecipientBirthDate},
		{"certificateRecipientDeathDate", in.CertificateRecipientDeathDate, &req.CertificateRecipientDeathDate},
	}
	for _, d := range dates {
		t, err := pastDateField(d.field, d.value, now)
		if err != nil {
			return err
		}
		*d.dst = t
	}
	return nil
}

// resolveSubmission applies the auto-rules: certificate requests must match
// an active record (and may be reissues of it), confirmation candidates must
// already be baptized.
func resolveSubmission(ctx context.Context, tx repositories.Store, req *models.ServiceRequest, reissueReason string) error {
	if req.Kind.IsCertificate() {
		c, ok := matching.CertificateCriteria(req)
		if !ok {
			return nil
		}
		record, err := findRecord(ctx, tx, c)
		if err != nil {
			return err
		}
		if record == nil {
			reject(req, matching.RejectionNote(c))
			return nil
		}
		req.RecordID = &record.ID

		issued, err := tx.ListIssuedRequests(ctx, c.Type)
		if err != nil {
			return fmt.Errorf("list issued requests: %w", err)
		}
		if matching.IssuedAgainst(record, issued) {
			reason := strings.TrimSpace(reissueReason)
			if reason == "" {
				return apperr.ErrReissueReasonRequired
			}
			req.IsReissue = true
			req.ReissueReason = &reason
		}
		return nil
	}

	if req.Kind == models.KindConfirmation {
		name := models.Deref(req.ConfirmationCandidateName)
		c := matching.BaptismProofCriteria(name, req.ConfirmationCandidateBirthDate)
		record, err := findRecord(ctx, tx, c)
		if err != nil {
			return err
		}
		if record == nil {
			reject(req, matching.BaptismProofNote(name, req.ConfirmationCandidateBirthDate))
		}
	}
	return nil
}

func findRecord(ctx context.Context, store repositories.RecordStore, c matching.MatchCriteria) (*models.SacramentRecord, error) {
	records, err := store.ListRecords(ctx, c.Query())
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return matching.FindBestMatch(c, records), nil
}

func reject(req *models.ServiceRequest, note string) {
	req.Status = models.StatusRejected
	req.AdminNotes = &note
}

// UpdateStatus moves a request through its lifecycle. Completing a sacrament
// request records the sacrament in the same transaction.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, in *models.UpdateStatusInput) (*models.ServiceRequest, error) {
	if !in.Status.Valid() {
		return nil, apperr.Invalid("status", "Unknown status %q.", in.Status)
	}
	now := s.Clock.Now()
	schedule := strings.TrimSpace(in.ConfirmedSchedule)

	var updated *models.ServiceRequest
	var created *models.SacramentRecord
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		req, err := tx.LockRequest(ctx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(in.Status) {
			if req.Status.IsTerminal() {
				return apperr.ErrTerminalState
			}
			return fmt.Errorf("%w: %s to %s", apperr.ErrInvalidTransition, req.Status, in.Status)
		}

		switch in.Status {
		case models.StatusScheduled:
			if schedule == "" && (req.Status != models.StatusScheduled || req.ConfirmedSchedule == nil) {
				return apperr.Required("confirmedSchedule", "A confirmed schedule is required.")
			}
		case models.StatusCompleted:
			if req.Category == models.CategoryCertificate {
				return apperr.ErrCompleteViaIssuance
			}
			if t, ok := req.Kind.SacramentType(); ok {
				created, err = s.recordSacrament(ctx, tx, req, in, t, now)
				if err != nil {
					return err
				}
			}
		}

		req.Status = in.Status
		if schedule != "" {
			req.ConfirmedSchedule = &schedule
		}
		if in.AdminNotes != nil {
			req.AdminNotes = trimmed(*in.AdminNotes)
		}
		req.UpdatedAt = now
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.Transitioned(string(updated.Status))
	s.Registry.Invalidate(ctx)
	event := s.log.Info().Str("request_id", id).Str("status", string(updated.Status))
	if created != nil {
		event = event.Str("record_id", created.ID)
	}
	event.Msg("Request status updated")
	return updated, nil
}

func (s *RequestService) recordSacrament(ctx context.Context, tx repositories.Store, req *models.ServiceRequest, in *models.UpdateStatusInput, t models.SacramentType, now time.Time) (*models.SacramentRecord, error) {
	linked, err := tx.ListRecords(ctx, models.RecordQuery{RequestID: req.ID})
	if err != nil {
		return nil, fmt.Errorf("list linked records: %w", err)
	}
	if len(linked) > 0 {
		return nil, apperr.ErrRecordAlreadyLinked
	}

	record, err := recordFromRequest(req, in, t, now)
	if err != nil {
		return nil, err
	}
	if err := tx.CreateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	req.RecordID = &record.ID
	return record, nil
}

// recordFromRequest builds the sacrament record for a completed request.
// Admin-supplied details win; everything else defaults from the request.
func recordFromRequest(req *models.ServiceRequest, in *models.UpdateStatusInput, t models.SacramentType, now time.Time) (*models.SacramentRecord, error) {
	d := in.RecordDetails
	if d == nil {
		d = &models.RecordDetails{}
	}
	if d.Type != "" {
		if !d.Type.Valid() {
			return nil, apperr.Invalid("type", "Unknown sacrament type %q.", d.Type)
		}
		t = d.Type
	}

	date, err := sacramentDate(req, d, in.ConfirmedSchedule, now)
	if err != nil {
		return nil, err
	}

	r := &models.SacramentRecord{
		ID:        uuid.New().String(),
		Name:      firstText(d.Name, defaultRecordName(req)),
		Type:      t,
		Date:      date,
		Officiant: firstText(d.Officiant, "Parish Priest"),
		Details:   firstText(d.Details, fmt.Sprintf("Generated from Request #%s. Details: %s", req.ID, req.Details)),
		RequestID: &req.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch req.Kind {
	case models.KindConfirmation:
		r.BirthDate = req.ConfirmationCandidateBirthDate
	case models.KindFuneral:
		r.Residence = req.FuneralResidence
		r.DateOfDeath = req.FuneralDateOfDeath
		r.PlaceOfBurial = req.FuneralPlaceOfBurial
	case models.KindMarriage:
		r.GroomName = req.MarriageGroomName
		r.BrideName = req.MarriageBrideName
	}
	if err := applyDetails(r, d); err != nil {
		return nil, err
	}
	if err := checkBirthDate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func defaultRecordName(req *models.ServiceRequest) string {
	switch req.Kind {
	case models.KindConfirmation:
		return firstText(models.Deref(req.ConfirmationCandidateName), req.RequesterName)
	case models.KindFuneral:
		return firstText(models.Deref(req.FuneralDeceasedName), req.RequesterName)
	case models.KindMarriage:
		groom, bride := models.Deref(req.MarriageGroomName), models.Deref(req.MarriageBrideName)
		if groom != "" && bride != "" {
			return groom + " & " + bride
		}
	}
	return req.RequesterName
}

// sacramentDate picks the record date: an explicit date must parse, the
// schedule and preferred date are used when they do, otherwise today.
func sacramentDate(req *models.ServiceRequest, d *models.RecordDetails, schedule string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(d.Date) != "" {
		t, err := timeutil.ParseDate(d.Date)
		if err != nil {
			return time.Time{}, apperr.Invalid("date", "Enter a valid date (YYYY-MM-DD).")
		}
		return t, nil
	}
	for _, candidate := range []string{schedule, models.Deref(req.ConfirmedSchedule), models.Deref(req.PreferredDate)} {
		if t, ok := timeutil.ParseScheduleDate(candidate); ok {
			return t, nil
		}
	}
	return timeutil.StartOfDay(now), nil
}

func firstText(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Delete removes a request with its certificates and unlinks its records.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	err := s.Store.RunInTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.LockRequest(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteCertificatesByRequest(ctx, id); err != nil {
			return fmt.Errorf("delete certificates: %w", err)
		}
		if err := tx.DetachRecords(ctx, id); err != nil {
			return fmt.Errorf("detach records: %w", err)
		}
		return tx.DeleteRequest(ctx, id)
	})
	if err != nil {
		return err
	}
	s.Registry.Invalidate(ctx)
	s.log.Info().Str("request_id", id).Msg("Request deleted")
	return nil
}

func (s *RequestService) List(ctx context.Context) ([]*models.ServiceRequest, error) {
	return s.Store.ListRequests(ctx)
}

func (s *RequestService) Get(ctx context.Context, id string) (*models.ServiceRequest, error) {
	req, err := s.Store.GetRequest(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("request %s: %w", id, err)
	}
	return req, err
}
