package certificates

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"parish-backend/internal/timeutil"
)

// RegisterPlaceholder stands in for a missing register book, page or line.
const RegisterPlaceholder = "___"

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// OrdinalDay renders the day of month as "1ST", "22ND", "13TH".
func OrdinalDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	d := t.In(timeutil.PHT).Day()
	return fmt.Sprintf("%d%s", d, strings.ToUpper(ordinalSuffix(d)))
}

// MonthYear renders "JANUARY 2024".
func MonthYear(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strings.ToUpper(t.In(timeutil.PHT).Format("January 2006"))
}

// FullDate renders "MAY 1, 1995".
func FullDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strings.ToUpper(t.In(timeutil.PHT).Format("January 2, 2006"))
}

// ShortDate renders "10 JANUARY '24".
func ShortDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strings.ToUpper(t.In(timeutil.PHT).Format("2 January '06"))
}

// LongOrdinalDate renders "10th day of January 2024".
func LongOrdinalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	p := t.In(timeutil.PHT)
	return fmt.Sprintf("%d%s day of %s", p.Day(), ordinalSuffix(p.Day()), p.Format("January 2006"))
}

// Register returns the register reference or the blank marker.
func Register(s string) string {
	if strings.TrimSpace(s) == "" {
		return RegisterPlaceholder
	}
	return strings.TrimSpace(s)
}

// Upper trims and upper-cases a field value.
func Upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Slug lowercases name and joins its alphanumeric runs with hyphens.
func Slug(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			hyphen = false
			continue
		}
		hyphen = true
	}
	return b.String()
}

// FileName is "<type>-certificate-<slug>.pdf", e.g. "baptism-certificate-juan-dela-cruz.pdf".
func FileName(sacramentType, name string) string {
	slug := Slug(name)
	if slug == "" {
		slug = "certificate"
	}
	return fmt.Sprintf("%s-certificate-%s.pdf", strings.ToLower(sacramentType), slug)
}
