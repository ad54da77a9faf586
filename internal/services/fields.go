package services

import (
	"regexp"
	"strings"
	"time"

	"parish-backend/internal/apperr"
	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"
)

var (
	mobilePattern = regexp.MustCompile(`^(?:\+639|09)\d{9}$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidContact accepts an email address or a Philippine mobile number.
func ValidContact(contact string) bool {
	contact = strings.TrimSpace(contact)
	return mobilePattern.MatchString(contact) || emailPattern.MatchString(contact)
}

// dateField parses an optional YYYY-MM-DD input.
func dateField(field, value string) (*time.Time, error) {
	t, err := timeutil.ParseOptionalDate(value)
	if err != nil {
		return nil, apperr.Invalid(field, "Enter a valid date (YYYY-MM-DD).")
	}
	return t, nil
}

// pastDateField parses a date that must not fall after today.
func pastDateField(field, value string, now time.Time) (*time.Time, error) {
	t, err := dateField(field, value)
	if err != nil || t == nil {
		return t, err
	}
	if timeutil.AfterDay(*t, now) {
		return nil, apperr.Invalid(field, "Date cannot be in the future.")
	}
	return t, nil
}

func requireText(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Required(field, message)
	}
	return nil
}

func trimmed(s string) *string {
	return models.Str(strings.TrimSpace(s))
}

// applyDetails copies the optional sacrament fields of d onto r. Blank fields
// leave r untouched.
func applyDetails(r *models.SacramentRecord, d *models.RecordDetails) error {
	text := []struct {
		dst **string
		val string
	}{
		{&r.FatherName, d.FatherName},
		{&r.MotherName, d.MotherName},
		{&r.BirthPlace, d.BirthPlace},
		{&r.BaptismPlace, d.BaptismPlace},
		{&r.Sponsors, d.Sponsors},
		{&r.RegisterBook, d.RegisterBook},
		{&r.RegisterPage, d.RegisterPage},
		{&r.RegisterLine, d.RegisterLine},
		{&r.Residence, d.Residence},
		{&r.CauseOfDeath, d.CauseOfDeath},
		{&r.PlaceOfBurial, d.PlaceOfBurial},
		{&r.GroomName, d.GroomName},
		{&r.BrideName, d.BrideName},
		{&r.GroomAge, d.GroomAge},
		{&r.BrideAge, d.BrideAge},
		{&r.GroomResidence, d.GroomResidence},
		{&r.BrideResidence, d.BrideResidence},
		{&r.GroomNationality, d.GroomNationality},
		{&r.BrideNationality, d.BrideNationality},
		{&r.GroomFatherName, d.GroomFatherName},
		{&r.BrideFatherName, d.BrideFatherName},
		{&r.GroomMotherName, d.GroomMotherName},
		{&r.BrideMotherName, d.BrideMotherName},
	}
	for _, f := range text {
		if v := trimmed(f.val); v != nil {
			*f.dst = v
		}
	}

	dates := []struct {
		field string
		dst   **time.Time
		val   string
	}{
		{"birthDate", &r.BirthDate, d.BirthDate},
		{"baptismDate", &r.BaptismDate, d.BaptismDate},
		{"dateOfDeath", &r.DateOfDeath, d.DateOfDeath},
	}
	for _, f := range dates {
		t, err := dateField(f.field, f.val)
		if err != nil {
			return err
		}
		if t != nil {
			*f.dst = t
		}
	}
	return nil
}

// checkBirthDate enforces birthDate <= sacrament date.
func checkBirthDate(r *models.SacramentRecord) error {
	if r.BirthDate != nil && timeutil.AfterDay(*r.BirthDate, r.Date) {
		return apperr.ErrInvalidBirthDate
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
