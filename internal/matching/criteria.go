// Package matching links service requests to sacrament records.
//
// Requests carry no foreign key to the record they are about; the link is
// established by comparing identifying fields (names and dates). Each
// sacrament type compares a different set of fields, captured here as a
// MatchCriteria value and evaluated by FindBestMatch without touching storage.
package matching

import (
	"strings"
	"time"

	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"
)

// MatchCriteria identifies one sacrament event. Zero-valued fields are not
// compared.
type MatchCriteria struct {
	Type        models.SacramentType
	Name        string
	GroomName   string
	BrideName   string
	Date        *time.Time // marriage date
	BirthDate   *time.Time
	DateOfDeath *time.Time
}

// Query returns the storage-level narrowing for the criteria: active records
// of the type, filtered by name when one is known. Dates are compared by
// FindBestMatch.
func (c MatchCriteria) Query() models.RecordQuery {
	q := models.RecordQuery{Type: c.Type}
	if c.Type == models.SacramentMarriage {
		q.GroomName = c.GroomName
		q.BrideName = c.BrideName
	} else {
		q.Name = c.Name
	}
	return q
}

// CertificateCriteria builds the criteria a certificate request is matched
// with. ok is false for requests that do not name a sacrament.
func CertificateCriteria(req *models.ServiceRequest) (MatchCriteria, bool) {
	t, ok := requestSacrament(req)
	if !ok {
		return MatchCriteria{}, false
	}
	c := MatchCriteria{Type: t}
	switch t {
	case models.SacramentMarriage:
		c.GroomName = models.Deref(req.MarriageGroomName)
		c.BrideName = models.Deref(req.MarriageBrideName)
		c.Date = req.MarriageDate
	case models.SacramentFuneral:
		c.Name = models.Deref(req.CertificateRecipientName)
		c.DateOfDeath = req.CertificateRecipientDeathDate
	default:
		c.Name = models.Deref(req.CertificateRecipientName)
		c.BirthDate = req.CertificateRecipientBirthDate
	}
	return c, true
}

// GenerationCriteria is the fallback lookup used when a certificate being
// generated has no record linked to its request. The recipient name falls
// back to the name printed on the certificate, then to the requester.
func GenerationCriteria(t models.SacramentType, req *models.ServiceRequest, cert *models.IssuedCertificate) MatchCriteria {
	c := MatchCriteria{Type: t}
	if t == models.SacramentMarriage {
		if req != nil {
			c.GroomName = models.Deref(req.MarriageGroomName)
			c.BrideName = models.Deref(req.MarriageBrideName)
			c.Date = req.MarriageDate
		}
		if c.GroomName == "" && c.BrideName == "" {
			c.Name = cert.RecipientName
		}
		return c
	}

	name := ""
	if req != nil {
		name = models.Deref(req.CertificateRecipientName)
		if t == models.SacramentConfirmation && name == "" {
			name = models.Deref(req.ConfirmationCandidateName)
		}
		if t == models.SacramentFuneral && name == "" {
			name = models.Deref(req.FuneralDeceasedName)
		}
	}
	if name == "" {
		name = cert.RecipientName
	}
	if name == "" && req != nil {
		name = req.RequesterName
	}
	c.Name = name

	if req != nil {
		if t == models.SacramentFuneral {
			c.DateOfDeath = firstDate(req.CertificateRecipientDeathDate, req.FuneralDateOfDeath)
		} else {
			c.BirthDate = firstDate(req.CertificateRecipientBirthDate, req.ConfirmationCandidateBirthDate)
		}
	}
	return c
}

// BaptismProofCriteria finds the baptism a confirmation candidate must have.
func BaptismProofCriteria(name string, birthDate *time.Time) MatchCriteria {
	return MatchCriteria{Type: models.SacramentBaptism, Name: name, BirthDate: birthDate}
}

func requestSacrament(req *models.ServiceRequest) (models.SacramentType, bool) {
	if req.Kind != "" {
		return req.Kind.SacramentType()
	}
	return models.SacramentTypeFromService(req.ServiceType)
}

func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

// NormalizeName trims, collapses inner whitespace and lower-cases a name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func sameName(want string, have *string) bool {
	return NormalizeName(want) == NormalizeName(models.Deref(have))
}

func sameDate(want *time.Time, have *time.Time) bool {
	if have == nil {
		return false
	}
	return timeutil.SameDay(want, have)
}
