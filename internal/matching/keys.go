package matching

import (
	"strings"
	"time"

	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"
)

// The keys below identify a sacrament event when no record ID is available:
// sacrament type plus normalized names and the identifying date. They are a
// heuristic. A request that omits a date the record carries yields a
// different key.

// RecordKey is the identity key of a record.
func RecordKey(r *models.SacramentRecord) string {
	switch r.Type {
	case models.SacramentMarriage:
		groom, bride := models.Deref(r.GroomName), models.Deref(r.BrideName)
		if groom == "" && bride == "" {
			return key(r.Type, []string{r.Name}, &r.Date)
		}
		return key(r.Type, []string{groom, bride}, &r.Date)
	case models.SacramentFuneral:
		return key(r.Type, []string{r.Name}, r.DateOfDeath)
	default:
		return key(r.Type, []string{r.Name}, r.BirthDate)
	}
}

// RequestKey is the identity key of the event a certificate request asks
// about. ok is false for requests that do not name a sacrament.
func RequestKey(req *models.ServiceRequest) (string, bool) {
	c, ok := CertificateCriteria(req)
	if !ok {
		return "", false
	}
	return CriteriaKey(c), true
}

// CriteriaKey is the identity key of the event described by c.
func CriteriaKey(c MatchCriteria) string {
	switch c.Type {
	case models.SacramentMarriage:
		if c.GroomName == "" && c.BrideName == "" {
			return key(c.Type, []string{c.Name}, c.Date)
		}
		return key(c.Type, []string{c.GroomName, c.BrideName}, c.Date)
	case models.SacramentFuneral:
		return key(c.Type, []string{c.Name}, c.DateOfDeath)
	default:
		return key(c.Type, []string{c.Name}, c.BirthDate)
	}
}

func key(t models.SacramentType, names []string, date *time.Time) string {
	parts := []string{string(t)}
	for _, n := range names {
		parts = append(parts, NormalizeName(n))
	}
	if date != nil {
		parts = append(parts, timeutil.StartOfDay(*date).Format(timeutil.DateLayout))
	} else {
		parts = append(parts, "")
	}
	return strings.Join(parts, "|")
}
