package services

import (
	"testing"
	"time"

	"parish-backend/internal/apperr"
	"parish-backend/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAutoRejectsCertificateWithoutRecord(t *testing.T) {
	f := newFixture(t)

	res, err := f.requests.Submit(f.ctx, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	require.NoError(t, err)

	assert.True(t, res.AutoRejected)
	assert.Equal(t, models.StatusRejected, res.Request.Status)
	assert.Contains(t, res.Message, "Juan Dela Cruz")
	assert.Contains(t, res.Message, "05/01/1995")

	stored := f.request(t, res.Request.ID)
	assert.Equal(t, models.StatusRejected, stored.Status)
	require.NotNil(t, stored.AdminNotes)
	assert.Equal(t, "No matching baptism record found for Juan Dela Cruz (05/01/1995).", *stored.AdminNotes)
	assert.Nil(t, stored.RecordID)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RequestsSubmitted.WithLabelValues("CERTIFICATE", "auto_rejected")))
}

func TestSubmitLinksMatchingRecord(t *testing.T) {
	f := newFixture(t)
	record := f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))

	res, err := f.requests.Submit(f.ctx, baptismCertificateInput("  juan   DELA cruz ", "1995-05-01"))
	require.NoError(t, err)

	assert.False(t, res.AutoRejected)
	assert.Equal(t, models.StatusPending, res.Request.Status)
	assert.Equal(t, models.KindBaptismCertificate, res.Request.Kind)
	assert.False(t, res.Request.IsReissue)
	require.NotNil(t, res.Request.RecordID)
	assert.Equal(t, record.ID, *res.Request.RecordID)
}

func TestSubmitPrefersMostRecentMatch(t *testing.T) {
	f := newFixture(t)
	f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))
	newer := f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(2001, 3, 10))

	req := f.submit(t, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	require.NotNil(t, req.RecordID)
	assert.Equal(t, newer.ID, *req.RecordID)
}

func TestSubmitIgnoresArchivedRecords(t *testing.T) {
	f := newFixture(t)
	record := f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))
	_, err := f.records.Archive(f.ctx, record.ID, "secretary", "duplicate entry")
	require.NoError(t, err)

	req := f.submit(t, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	assert.Equal(t, models.StatusRejected, req.Status)
}

func TestSubmitWithoutBirthDateMatchesByName(t *testing.T) {
	f := newFixture(t)
	f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))

	req := f.submit(t, baptismCertificateInput("Juan Dela Cruz", ""))
	assert.Equal(t, models.StatusPending, req.Status)
	assert.NotNil(t, req.RecordID)
}

func TestSubmitReissueRequiresReason(t *testing.T) {
	f := newFixture(t)
	record := f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))

	first := f.submit(t, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	f.issue(t, first.ID)

	_, err := f.requests.Submit(f.ctx, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	require.ErrorIs(t, err, apperr.ErrReissueReasonRequired)
	assert.True(t, apperr.IsValidation(err))
	requests, err := f.requests.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	in := baptismCertificateInput("Juan Dela Cruz", "1995-05-01")
	in.ReissueReason = "  Original copy was lost  "
	res, err := f.requests.Submit(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, res.Request.IsReissue)
	assert.Equal(t, "Original copy was lost", models.Deref(res.Request.ReissueReason))
	assert.Equal(t, record.ID, models.Deref(res.Request.RecordID))
}

func TestSubmitReissueDetectedByIdentityKey(t *testing.T) {
	f := newFixture(t)
	f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))

	// an older request that was issued before records were linked
	legacy := &models.ServiceRequest{
		ID:                            "legacy-request",
		Category:                      models.CategoryCertificate,
		ServiceType:                   "Baptismal Certificate",
		Kind:                          models.KindBaptismCertificate,
		RequesterName:                 "Ana Dela Cruz",
		ContactInfo:                   "09171234567",
		CertificateRecipientName:      models.Str("JUAN DELA CRUZ"),
		CertificateRecipientBirthDate: datePtr(1995, 5, 1),
		Status:                        models.StatusCompleted,
		SubmissionDate:                testNow.Add(-48 * time.Hour),
	}
	require.NoError(t, f.store.CreateRequest(f.ctx, legacy))
	require.NoError(t, f.store.CreateCertificate(f.ctx, &models.IssuedCertificate{
		ID:             "legacy-certificate",
		RequestID:      legacy.ID,
		Type:           legacy.ServiceType,
		RecipientName:  "JUAN DELA CRUZ",
		DateIssued:     legacy.SubmissionDate,
		IssuedBy:       "secretary",
		DeliveryMethod: models.DeliveryPickup,
		Status:         models.CertificatePendingUpload,
	}))

	_, err := f.requests.Submit(f.ctx, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))
	assert.ErrorIs(t, err, apperr.ErrReissueReasonRequired)
}

func TestSubmitMarriageCertificate(t *testing.T) {
	f := newFixture(t)
	record := f.seedRecord(t, models.SacramentRecord{
		Name:      "Pedro Reyes & Maria Santos",
		Type:      models.SacramentMarriage,
		Date:      day(2015, 2, 14),
		GroomName: models.Str("Pedro Reyes"),
		BrideName: models.Str("Maria Santos"),
	})

	in := &models.SubmitRequestInput{
		Category:              models.CategoryCertificate,
		ServiceType:           "Marriage Certificate",
		RequesterName:         "Pedro Reyes",
		ContactInfo:           "pedro@example.com",
		MarriageGroomName:     "pedro reyes",
		MarriageBrideName:     "Maria Santos",
		MarriageDate:          "2015-02-14",
		RequesterRelationship: "Self",
	}
	req := f.submit(t, in)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, record.ID, models.Deref(req.RecordID))

	in.MarriageDate = "2015-02-15"
	rejected := f.submit(t, in)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "No matching marriage record found for pedro reyes and Maria Santos (02/15/2015).", models.Deref(rejected.AdminNotes))
}

func TestSubmitDeathCertificate(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, models.SacramentRecord{
		Name:        "Lola Remedios",
		Type:        models.SacramentFuneral,
		Date:        day(2020, 8, 3),
		DateOfDeath: datePtr(2020, 8, 1),
	})

	in := &models.SubmitRequestInput{
		Category:                      models.CategoryCertificate,
		ServiceType:                   "Death Certificate",
		RequesterName:                 "Carlo Remedios",
		ContactInfo:                   "+639171234567",
		CertificateRecipientName:      "Lola Remedios",
		CertificateRecipientDeathDate: "2020-08-01",
		RequesterRelationship:         "Grandson",
	}
	req := f.submit(t, in)
	assert.Equal(t, models.KindDeathCertificate, req.Kind)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestSubmitConfirmationRequiresBaptism(t *testing.T) {
	f := newFixture(t)
	in := &models.SubmitRequestInput{
		Category:                       models.CategorySacrament,
		ServiceType:                    "Confirmation",
		RequesterName:                  "Ana Dela Cruz",
		ContactInfo:                    "09171234567",
		Details:                        "Batch confirmation in December",
		ConfirmationCandidateName:      "Juan Dela Cruz",
		ConfirmationCandidateBirthDate: "2012-05-01",
	}

	res, err := f.requests.Submit(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, res.AutoRejected)
	assert.Equal(t, "No matching baptism record found for Juan Dela Cruz (05/01/2012).", res.Message)

	f.seedBaptism(t, "Juan Dela Cruz", day(2012, 5, 1), day(2012, 7, 1))
	res, err = f.requests.Submit(f.ctx, in)
	require.NoError(t, err)
	assert.False(t, res.AutoRejected)
	assert.Equal(t, models.StatusPending, res.Request.Status)
	assert.Equal(t, models.KindConfirmation, res.Request.Kind)
}

func TestSubmitOtherCertificateIsNotMatched(t *testing.T) {
	f := newFixture(t)
	in := &models.SubmitRequestInput{
		Category:                 models.CategoryCertificate,
		ServiceType:              "Certificate of Good Moral Character",
		RequesterName:            "Ana Dela Cruz",
		ContactInfo:              "09171234567",
		Details:                  "For employment",
		CertificateRecipientName: "Ana Dela Cruz",
	}
	req := f.submit(t, in)
	assert.Equal(t, models.KindOtherCertificate, req.Kind)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Nil(t, req.RecordID)
}

func TestSubmitValidation(t *testing.T) {
	valid := func() *models.SubmitRequestInput {
		return baptismCertificateInput("Juan Dela Cruz", "1995-05-01")
	}
	funeral := func() *models.SubmitRequestInput {
		return &models.SubmitRequestInput{
			Category:              models.CategorySacrament,
			ServiceType:           "Funeral Mass",
			RequesterName:         "Carlo Remedios",
			ContactInfo:           "09171234567",
			PreferredDate:         "2026-10-20 09:00",
			FuneralDeceasedName:   "Lola Remedios",
			FuneralResidence:      "Sabang",
			FuneralDateOfDeath:    "2026-10-14",
			FuneralPlaceOfBurial:  "Borongan Catholic Cemetery",
			RequesterRelationship: "Grandson",
		}
	}

	tests := []struct {
		name   string
		input  func() *models.SubmitRequestInput
		field  string
		target error
	}{
		{"missing requester", func() *models.SubmitRequestInput { in := valid(); in.RequesterName = " "; return in }, "requesterName", nil},
		{"missing contact", func() *models.SubmitRequestInput { in := valid(); in.ContactInfo = ""; return in }, "contactInfo", nil},
		{"bad contact", func() *models.SubmitRequestInput { in := valid(); in.ContactInfo = "0917-123"; return in }, "contactInfo", apperr.ErrInvalidContact},
		{"unknown category", func() *models.SubmitRequestInput { in := valid(); in.Category = "DONATION"; return in }, "category", nil},
		{"missing service type", func() *models.SubmitRequestInput { in := valid(); in.ServiceType = ""; return in }, "serviceType", nil},
		{"missing details", func() *models.SubmitRequestInput { in := valid(); in.Details = ""; return in }, "details", nil},
		{"missing recipient", func() *models.SubmitRequestInput { in := valid(); in.CertificateRecipientName = ""; return in }, "certificateRecipientName", nil},
		{"malformed birth date", func() *models.SubmitRequestInput { in := valid(); in.CertificateRecipientBirthDate = "May 1"; return in }, "certificateRecipientBirthDate", nil},
		{"future birth date", func() *models.SubmitRequestInput { in := valid(); in.CertificateRecipientBirthDate = "2026-10-17"; return in }, "certificateRecipientBirthDate", nil},
		{"funeral without burial place", func() *models.SubmitRequestInput { in := funeral(); in.FuneralPlaceOfBurial = ""; return in }, "funeralPlaceOfBurial", nil},
		{"funeral without preferred date", func() *models.SubmitRequestInput { in := funeral(); in.PreferredDate = ""; return in }, "preferredDate", nil},
		{"funeral death in future", func() *models.SubmitRequestInput { in := funeral(); in.FuneralDateOfDeath = "2026-11-01"; return in }, "funeralDateOfDeath", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.requests.Submit(f.ctx, tt.input())
			require.Error(t, err)
			require.True(t, apperr.IsValidation(err), "got %v", err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			var v *apperr.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)

			requests, err := f.requests.List(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, requests)
		})
	}

	t.Run("funeral details are optional", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, funeral())
		assert.Equal(t, models.KindFuneral, req.Kind)
		assert.Equal(t, day(2026, 10, 14), *req.FuneralDateOfDeath)
	})
}

func TestValidContact(t *testing.T) {
	for contact, want := range map[string]bool{
		"09171234567":       true,
		"+639171234567":     true,
		" 09171234567 ":     true,
		"juan@example.com":  true,
		"0917123456":        false,
		"+63917123456":      false,
		"639171234567":      false,
		"juan@example":      false,
		"juan dela@cruz.ph": false,
		"":                  false,
	} {
		assert.Equal(t, want, ValidContact(contact), contact)
	}
}

func sacramentBaptismInput() *models.SubmitRequestInput {
	return &models.SubmitRequestInput{
		Category:      models.CategorySacrament,
		ServiceType:   "Baptism",
		RequesterName: "Maria Santos",
		ContactInfo:   "09171234567",
		PreferredDate: "2024-01-10",
		Details:       "Infant baptism for our daughter",
	}
}

func TestTerminalStatusesAreFinal(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())

	_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusRejected, AdminNotes: models.Str("Incomplete documents")})
	require.NoError(t, err)

	for _, next := range []models.RequestStatus{models.StatusPending, models.StatusApproved, models.StatusScheduled, models.StatusCompleted, models.StatusRejected} {
		_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: next, ConfirmedSchedule: "2024-01-10 09:00"})
		assert.ErrorIs(t, err, apperr.ErrTerminalState, next)
	}
	stored := f.request(t, req.ID)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, "Incomplete documents", models.Deref(stored.AdminNotes))
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())

	_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusScheduled})
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "confirmedSchedule", v.Field)

	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	_, err = f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusPending})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	updated, err = f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusScheduled, ConfirmedSchedule: "2024-01-12 10:00 AM"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12 10:00 AM", models.Deref(updated.ConfirmedSchedule))

	// rescheduling keeps the status
	updated, err = f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusScheduled, AdminNotes: models.Str("Godparents confirmed")})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12 10:00 AM", models.Deref(updated.ConfirmedSchedule))
	assert.Equal(t, "Godparents confirmed", models.Deref(updated.AdminNotes))

	_, err = f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: "ARCHIVED"})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.requests.UpdateStatus(f.ctx, "missing", &models.UpdateStatusInput{Status: models.StatusApproved})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCertificateRequestsCompleteOnlyThroughIssuance(t *testing.T) {
	f := newFixture(t)
	f.seedBaptism(t, "Juan Dela Cruz", day(1995, 5, 1), day(1995, 6, 4))
	req := f.submit(t, baptismCertificateInput("Juan Dela Cruz", "1995-05-01"))

	_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
	assert.ErrorIs(t, err, apperr.ErrCompleteViaIssuance)
	assert.Equal(t, models.StatusPending, f.request(t, req.ID).Status)
}

func TestCompletingSacramentCreatesRecord(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())

	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{
		Status: models.StatusCompleted,
		RecordDetails: &models.RecordDetails{
			Name:       "Sofia Santos",
			BirthDate:  "2023-11-02",
			FatherName: "Jose Santos",
			Sponsors:   "Lito Cruz, Nena Cruz",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.RecordID)

	record, err := f.store.GetRecord(f.ctx, *updated.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "Sofia Santos", record.Name)
	assert.Equal(t, models.SacramentBaptism, record.Type)
	assert.Equal(t, day(2024, 1, 10), record.Date)
	assert.Equal(t, "Parish Priest", record.Officiant)
	assert.Equal(t, "Generated from Request #"+req.ID+". Details: Infant baptism for our daughter", record.Details)
	assert.Equal(t, req.ID, models.Deref(record.RequestID))
	assert.Equal(t, "Jose Santos", models.Deref(record.FatherName))
	assert.Equal(t, day(2023, 11, 2), *record.BirthDate)
}

func TestCompletingSacramentDateFallbacks(t *testing.T) {
	t.Run("confirmed schedule", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, sacramentBaptismInput())
		_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusScheduled, ConfirmedSchedule: "2024-02-03 09:00 AM"})
		require.NoError(t, err)

		updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
		require.NoError(t, err)
		record, err := f.store.GetRecord(f.ctx, *updated.RecordID)
		require.NoError(t, err)
		assert.Equal(t, day(2024, 2, 3), record.Date)
		assert.Equal(t, "Maria Santos", record.Name)
	})

	t.Run("today when nothing parses", func(t *testing.T) {
		f := newFixture(t)
		in := sacramentBaptismInput()
		in.PreferredDate = "sometime next month"
		req := f.submit(t, in)

		updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
		require.NoError(t, err)
		record, err := f.store.GetRecord(f.ctx, *updated.RecordID)
		require.NoError(t, err)
		assert.Equal(t, day(2026, 10, 16), record.Date)
	})

	t.Run("explicit date must parse", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, sacramentBaptismInput())
		_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{
			Status:        models.StatusCompleted,
			RecordDetails: &models.RecordDetails{Date: "10/01/2024"},
		})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestCompletingSacramentRejectsBirthAfterSacrament(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())

	_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{
		Status:        models.StatusCompleted,
		RecordDetails: &models.RecordDetails{Name: "Maria Santos", Date: "2024-01-10", BirthDate: "2024-01-20"},
	})
	require.ErrorIs(t, err, apperr.ErrInvalidBirthDate)

	assert.Equal(t, models.StatusPending, f.request(t, req.ID).Status)
	records, err := f.store.ListRecords(f.ctx, models.RecordQuery{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCompletingFuneralUsesRequestFields(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, &models.SubmitRequestInput{
		Category:              models.CategorySacrament,
		ServiceType:           "Funeral Mass",
		RequesterName:         "Carlo Remedios",
		ContactInfo:           "09171234567",
		PreferredDate:         "2026-10-18",
		FuneralDeceasedName:   "Lola Remedios",
		FuneralResidence:      "Sabang",
		FuneralDateOfDeath:    "2026-10-14",
		FuneralPlaceOfBurial:  "Borongan Catholic Cemetery",
		RequesterRelationship: "Grandson",
	})

	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	record, err := f.store.GetRecord(f.ctx, *updated.RecordID)
	require.NoError(t, err)
	assert.Equal(t, models.SacramentFuneral, record.Type)
	assert.Equal(t, "Lola Remedios", record.Name)
	assert.Equal(t, day(2026, 10, 18), record.Date)
	assert.Equal(t, "Sabang", models.Deref(record.Residence))
	assert.Equal(t, "Borongan Catholic Cemetery", models.Deref(record.PlaceOfBurial))
	assert.Equal(t, day(2026, 10, 14), *record.DateOfDeath)
}

func TestCompletingSacramentRefusesSecondRecord(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())
	f.seedRecord(t, models.SacramentRecord{
		Name:      "Sofia Santos",
		Type:      models.SacramentBaptism,
		Date:      day(2024, 1, 10),
		RequestID: &req.ID,
	})

	_, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
	assert.ErrorIs(t, err, apperr.ErrRecordAlreadyLinked)
	assert.Equal(t, models.StatusPending, f.request(t, req.ID).Status)
}

func TestCompletingOtherSacramentCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, &models.SubmitRequestInput{
		Category:      models.CategorySacrament,
		ServiceType:   "House Blessing",
		RequesterName: "Maria Santos",
		ContactInfo:   "09171234567",
		Details:       "New house in Sabang",
	})
	assert.Equal(t, models.KindOtherSacrament, req.Kind)

	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Nil(t, updated.RecordID)
}

func TestDeleteRequestCascades(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())
	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusApproved})
	require.NoError(t, err)
	record := f.seedRecord(t, models.SacramentRecord{
		Name:      "Sofia Santos",
		Type:      models.SacramentBaptism,
		Date:      day(2024, 1, 10),
		RequestID: &updated.ID,
	})
	cert := f.issue(t, req.ID)

	require.NoError(t, f.requests.Delete(f.ctx, req.ID))

	_, err = f.store.GetRequest(f.ctx, req.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.store.GetCertificate(f.ctx, cert.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	kept, err := f.store.GetRecord(f.ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.RequestID)

	assert.ErrorIs(t, f.requests.Delete(f.ctx, req.ID), apperr.ErrNotFound)
}

func TestListRequestsNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, sacramentBaptismInput())
	f.clock.Advance(time.Hour)
	second := f.submit(t, sacramentBaptismInput())

	requests, err := f.requests.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, second.ID, requests[0].ID)
	assert.Equal(t, first.ID, requests[1].ID)

	got, err := f.requests.Get(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	_, err = f.requests.Get(f.ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
