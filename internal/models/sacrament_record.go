package models

import "time"

type SacramentType string

const (
	SacramentBaptism      SacramentType = "BAPTISM"
	SacramentConfirmation SacramentType = "CONFIRMATION"
	SacramentMarriage     SacramentType = "MARRIAGE"
	SacramentFuneral      SacramentType = "FUNERAL"
)

func (t SacramentType) Valid() bool {
	switch t {
	case SacramentBaptism, SacramentConfirmation, SacramentMarriage, SacramentFuneral:
		return true
	}
	return false
}

type SacramentRecord struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Type      SacramentType `json:"type" db:"type"`
	Date      time.Time     `json:"date" db:"date"` // sacrament / event date
	Officiant string        `json:"officiant" db:"officiant"`
	Details   string        `json:"details" db:"details"`

	// Baptism / confirmation
	FatherName   *string    `json:"father_name,omitempty" db:"father_name"`
	MotherName   *string    `json:"mother_name,omitempty" db:"mother_name"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	BirthPlace   *string    `json:"birth_place,omitempty" db:"birth_place"`
	BaptismDate  *time.Time `json:"baptism_date,omitempty" db:"baptism_date"`
	BaptismPlace *string    `json:"baptism_place,omitempty" db:"baptism_place"`
	Sponsors     *string    `json:"sponsors,omitempty" db:"sponsors"`

	// Register reference
	RegisterBook *string `json:"register_book,omitempty" db:"register_book"`
	RegisterPage *string `json:"register_page,omitempty" db:"register_page"`
	RegisterLine *string `json:"register_line,omitempty" db:"register_line"`

	// Funeral
	Residence     *string    `json:"residence,omitempty" db:"residence"`
	DateOfDeath   *time.Time `json:"date_of_death,omitempty" db:"date_of_death"`
	CauseOfDeath  *string    `json:"cause_of_death,omitempty" db:"cause_of_death"`
	PlaceOfBurial *string    `json:"place_of_burial,omitempty" db:"place_of_burial"`

	// Marriage
	GroomName        *string `json:"groom_name,omitempty" db:"groom_name"`
	BrideName        *string `json:"bride_name,omitempty" db:"bride_name"`
	GroomAge         *string `json:"groom_age,omitempty" db:"groom_age"`
	BrideAge         *string `json:"bride_age,omitempty" db:"bride_age"`
	GroomResidence   *string `json:"groom_residence,omitempty" db:"groom_residence"`
	BrideResidence   *string `json:"bride_residence,omitempty" db:"bride_residence"`
	GroomNationality *string `json:"groom_nationality,omitempty" db:"groom_nationality"`
	BrideNationality *string `json:"bride_nationality,omitempty" db:"bride_nationality"`
	GroomFatherName  *string `json:"groom_father_name,omitempty" db:"groom_father_name"`
	BrideFatherName  *string `json:"bride_father_name,omitempty" db:"bride_father_name"`
	GroomMotherName  *string `json:"groom_mother_name,omitempty" db:"groom_mother_name"`
	BrideMotherName  *string `json:"bride_mother_name,omitempty" db:"bride_mother_name"`

	IsArchived    bool       `json:"is_archived" db:"is_archived"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	ArchivedBy    *string    `json:"archived_by,omitempty" db:"archived_by"`
	ArchiveReason *string    `json:"archive_reason,omitempty" db:"archive_reason"`

	RequestID *string   `json:"request_id,omitempty" db:"request_id"` // originating service request
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecordDetails is the full sacrament field set accepted when an admin
// creates or edits a record, or completes a sacrament request into one.
// Dates are YYYY-MM-DD strings; blank fields are left unset.
type RecordDetails struct {
	Name             string        `json:"name"`
	Date             string        `json:"date"`
	Type             SacramentType `json:"type"`
	Officiant        string        `json:"officiant"`
	Details          string        `json:"details"`
	FatherName       string        `json:"father_name"`
	MotherName       string        `json:"mother_name"`
	BirthDate        string        `json:"birth_date"`
	BirthPlace       string        `json:"birth_place"`
	BaptismDate      string        `json:"baptism_date"`
	BaptismPlace     string        `json:"baptism_place"`
	Sponsors         string        `json:"sponsors"`
	RegisterBook     string        `json:"register_book"`
	RegisterPage     string        `json:"register_page"`
	RegisterLine     string        `json:"register_line"`
	Residence        string        `json:"residence"`
	DateOfDeath      string        `json:"date_of_death"`
	CauseOfDeath     string        `json:"cause_of_death"`
	PlaceOfBurial    string        `json:"place_of_burial"`
	GroomName        string        `json:"groom_name"`
	BrideName        string        `json:"bride_name"`
	GroomAge         string        `json:"groom_age"`
	BrideAge         string        `json:"bride_age"`
	GroomResidence   string        `json:"groom_residence"`
	BrideResidence   string        `json:"bride_residence"`
	GroomNationality string        `json:"groom_nationality"`
	BrideNationality string        `json:"bride_nationality"`
	GroomFatherName  string        `json:"groom_father_name"`
	BrideFatherName  string        `json:"bride_father_name"`
	GroomMotherName  string        `json:"groom_mother_name"`
	BrideMotherName  string        `json:"bride_mother_name"`
}

type ArchiveRecordRequest struct {
	Reason string `json:"reason"`
}

// RecordQuery narrows record lookups. Empty string fields are not applied.
type RecordQuery struct {
	Type            SacramentType
	IncludeArchived bool
	Name            string
	GroomName       string
	BrideName       string
	RequestID       string
}

// Str returns a pointer to s, or nil when s is blank.
func Str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
