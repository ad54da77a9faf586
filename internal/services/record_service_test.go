package services

import (
	"testing"
	"time"

	"parish-backend/internal/apperr"
	"parish-backend/internal/matching"
	"parish-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baptismDetails() *models.RecordDetails {
	return &models.RecordDetails{
		Name:         "Juan Dela Cruz",
		Type:         models.SacramentBaptism,
		Date:         "1995-06-04",
		Officiant:    "Rev. Fr. Jose Ramos",
		Details:      "Baptized at the parish church",
		FatherName:   "Pedro Dela Cruz",
		MotherName:   "Ana Dela Cruz",
		BirthDate:    "1995-05-01",
		RegisterBook: "12",
		RegisterPage: "45",
	}
}

func TestCreateRecord(t *testing.T) {
	f := newFixture(t)

	r, err := f.records.Create(f.ctx, baptismDetails())
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, day(1995, 6, 4), r.Date)
	assert.Equal(t, day(1995, 5, 1), *r.BirthDate)
	assert.Equal(t, "12", models.Deref(r.RegisterBook))
	assert.Nil(t, r.RegisterLine)

	got, err := f.records.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, got.Name)
}

func TestCreateRecordValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *models.RecordDetails)
		field string
	}{
		{"missing name", func(d *models.RecordDetails) { d.Name = "" }, "name"},
		{"unknown type", func(d *models.RecordDetails) { d.Type = "ORDINATION" }, "type"},
		{"missing date", func(d *models.RecordDetails) { d.Date = "" }, "date"},
		{"malformed date", func(d *models.RecordDetails) { d.Date = "June 4" }, "date"},
		{"missing officiant", func(d *models.RecordDetails) { d.Officiant = " " }, "officiant"},
		{"missing details", func(d *models.RecordDetails) { d.Details = "" }, "details"},
		{"malformed death date", func(d *models.RecordDetails) { d.DateOfDeath = "yesterday" }, "dateOfDeath"},
		{"birth after sacrament", func(d *models.RecordDetails) { d.BirthDate = "1995-07-01" }, "birthDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			d := baptismDetails()
			tt.edit(d)

			_, err := f.records.Create(f.ctx, d)
			var v *apperr.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestCreateMarriageRecordDefaultsName(t *testing.T) {
	f := newFixture(t)
	r, err := f.records.Create(f.ctx, &models.RecordDetails{
		Type:      models.SacramentMarriage,
		Date:      "2015-02-14",
		Officiant: "Rev. Fr. Jose Ramos",
		Details:   "Solemnized at the parish church",
		GroomName: "Pedro Reyes",
		BrideName: "Maria Santos",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pedro Reyes & Maria Santos", r.Name)
}

func TestArchiveThenUnarchiveRestoresMatching(t *testing.T) {
	f := newFixture(t)
	r, err := f.records.Create(f.ctx, baptismDetails())
	require.NoError(t, err)
	criteria := matching.BaptismProofCriteria("Juan Dela Cruz", datePtr(1995, 5, 1))

	f.clock.Advance(time.Hour)
	archived, err := f.records.Archive(f.ctx, r.ID, "secretary", "Duplicate of book 12 entry")
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.Equal(t, testNow.Add(time.Hour), *archived.ArchivedAt)
	assert.Equal(t, "secretary", models.Deref(archived.ArchivedBy))
	assert.Equal(t, "Duplicate of book 12 entry", models.Deref(archived.ArchiveReason))

	match, err := findRecord(f.ctx, f.store, criteria)
	require.NoError(t, err)
	assert.Nil(t, match)

	// archived records stay viewable
	got, err := f.records.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	restored, err := f.records.Unarchive(f.ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.Nil(t, restored.ArchivedAt)
	assert.Nil(t, restored.ArchivedBy)
	assert.Nil(t, restored.ArchiveReason)

	match, err = findRecord(f.ctx, f.store, criteria)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, r.ID, match.ID)
}

func TestListRecordsHidesArchivedByDefault(t *testing.T) {
	f := newFixture(t)
	active, err := f.records.Create(f.ctx, baptismDetails())
	require.NoError(t, err)
	d := baptismDetails()
	d.Name = "Pedro Dela Cruz"
	hidden, err := f.records.Create(f.ctx, d)
	require.NoError(t, err)
	_, err = f.records.Archive(f.ctx, hidden.ID, "secretary", "")
	require.NoError(t, err)

	records, err := f.records.List(f.ctx, "", false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, active.ID, records[0].ID)

	records, err = f.records.List(f.ctx, models.SacramentBaptism, true)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = f.records.List(f.ctx, models.SacramentFuneral, true)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = f.records.List(f.ctx, "ORDINATION", false)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateRecordKeepsArchiveStateAndLink(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, sacramentBaptismInput())
	updated, err := f.requests.UpdateStatus(f.ctx, req.ID, &models.UpdateStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	recordID := *updated.RecordID
	_, err = f.records.Archive(f.ctx, recordID, "secretary", "needs review")
	require.NoError(t, err)

	d := baptismDetails()
	d.Name = "Sofia Santos"
	d.Sponsors = "Lito Cruz"
	r, err := f.records.Update(f.ctx, recordID, d)
	require.NoError(t, err)
	assert.Equal(t, "Sofia Santos", r.Name)
	assert.Equal(t, "Lito Cruz", models.Deref(r.Sponsors))
	assert.True(t, r.IsArchived)
	assert.Equal(t, req.ID, models.Deref(r.RequestID))

	_, err = f.records.Update(f.ctx, "missing", baptismDetails())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.records.Archive(f.ctx, "missing", "secretary", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
