package matching

import (
	"fmt"
	"strings"
	"time"

	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"
)

// RejectionNote explains why a certificate request was auto-rejected.
func RejectionNote(c MatchCriteria) string {
	switch c.Type {
	case models.SacramentMarriage:
		return fmt.Sprintf("No matching marriage record found for %s and %s (%s).",
			orDefault(c.GroomName, "unknown groom"),
			orDefault(c.BrideName, "unknown bride"),
			dateText(c.Date, "unknown date"))
	case models.SacramentFuneral:
		return fmt.Sprintf("No matching funeral record found for %s (date of death: %s).",
			orDefault(c.Name, "unknown name"),
			dateText(c.DateOfDeath, "unknown date"))
	default:
		return fmt.Sprintf("No matching %s record found for %s (%s).",
			strings.ToLower(string(c.Type)),
			orDefault(c.Name, "unknown name"),
			dateText(c.BirthDate, "birth date not provided"))
	}
}

// BaptismProofNote explains why a confirmation request was auto-rejected.
func BaptismProofNote(name string, birthDate *time.Time) string {
	return fmt.Sprintf("No matching baptism record found for %s (%s).",
		orDefault(name, "unknown name"), dateText(birthDate, "birth date not provided"))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func dateText(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return timeutil.FormatLocalDate(*t)
}
