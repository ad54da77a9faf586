package models

import "time"

type RequestCategory string

const (
	CategorySacrament   RequestCategory = "SACRAMENT"
	CategoryCertificate RequestCategory = "CERTIFICATE"
)

type ServiceRequest struct {
	ID            string          `json:"id" db:"id"`
	Category      RequestCategory `json:"category" db:"category"`
	ServiceType   string          `json:"service_type" db:"service_type"`
	Kind          RequestKind     `json:"kind" db:"kind"`
	RequesterName string          `json:"requester_name" db:"requester_name"`
	ContactInfo   string          `json:"contact_info" db:"contact_info"`
	PreferredDate *string         `json:"preferred_date,omitempty" db:"preferred_date"` // free text date/time
	Details       string          `json:"details" db:"details"`

	ConfirmationCandidateName      *string    `json:"confirmation_candidate_name,omitempty" db:"confirmation_candidate_name"`
	ConfirmationCandidateBirthDate *time.Time `json:"confirmation_candidate_birth_date,omitempty" db:"confirmation_candidate_birth_date"`

	FuneralDeceasedName  *string    `json:"funeral_deceased_name,omitempty" db:"funeral_deceased_name"`
	FuneralResidence     *string    `json:"funeral_residence,omitempty" db:"funeral_residence"`
	FuneralDateOfDeath   *time.Time `json:"funeral_date_of_death,omitempty" db:"funeral_date_of_death"`
	FuneralPlaceOfBurial *string    `json:"funeral_place_of_burial,omitempty" db:"funeral_place_of_burial"`

	MarriageGroomName *string    `json:"marriage_groom_name,omitempty" db:"marriage_groom_name"`
	MarriageBrideName *string    `json:"marriage_bride_name,omitempty" db:"marriage_bride_name"`
	MarriageDate      *time.Time `json:"marriage_date,omitempty" db:"marriage_date"`

	CertificateRecipientName      *string    `json:"certificate_recipient_name,omitempty" db:"certificate_recipient_name"`
	CertificateRecipientBirthDate *time.Time `json:"certificate_recipient_birth_date,omitempty" db:"certificate_recipient_birth_date"`
	CertificateRecipientDeathDate *time.Time `json:"certificate_recipient_death_date,omitempty" db:"certificate_recipient_death_date"`
	RequesterRelationship         *string    `json:"requester_relationship,omitempty" db:"requester_relationship"`

	Status            RequestStatus `json:"status" db:"status"`
	SubmissionDate    time.Time     `json:"submission_date" db:"submission_date"`
	ConfirmedSchedule *string       `json:"confirmed_schedule,omitempty" db:"confirmed_schedule"`
	AdminNotes        *string       `json:"admin_notes,omitempty" db:"admin_notes"`
	RecordID          *string       `json:"record_id,omitempty" db:"record_id"` // resolved sacrament record
	IsReissue         bool          `json:"is_reissue" db:"is_reissue"`
	ReissueReason     *string       `json:"reissue_reason,omitempty" db:"reissue_reason"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// SubmitRequestInput is the public submission form. Dates are YYYY-MM-DD.
type SubmitRequestInput struct {
	Category      RequestCategory `json:"category"`
	ServiceType   string          `json:"service_type"`
	RequesterName string          `json:"requester_name"`
	ContactInfo   string          `json:"contact_info"`
	PreferredDate string          `json:"preferred_date"`
	Details       string          `json:"details"`

	ConfirmationCandidateName      string `json:"confirmation_candidate_name"`
	ConfirmationCandidateBirthDate string `json:"confirmation_candidate_birth_date"`

	FuneralDeceasedName  string `json:"funeral_deceased_name"`
	FuneralResidence     string `json:"funeral_residence"`
	FuneralDateOfDeath   string `json:"funeral_date_of_death"`
	FuneralPlaceOfBurial string `json:"funeral_place_of_burial"`

	MarriageGroomName string `json:"marriage_groom_name"`
	MarriageBrideName string `json:"marriage_bride_name"`
	MarriageDate      string `json:"marriage_date"`

	CertificateRecipientName      string `json:"certificate_recipient_name"`
	CertificateRecipientBirthDate string `json:"certificate_recipient_birth_date"`
	CertificateRecipientDeathDate string `json:"certificate_recipient_death_date"`
	RequesterRelationship         string `json:"requester_relationship"`
	ReissueReason                 string `json:"reissue_reason"`
}

// SubmitResult is what the requester sees after submitting. Auto-rejected
// requests are still reported as submitted, with the rejection note as Message.
type SubmitResult struct {
	Request      *ServiceRequest `json:"request"`
	AutoRejected bool            `json:"auto_rejected"`
	Message      string          `json:"message"`
}

type UpdateStatusInput struct {
	Status            RequestStatus  `json:"status"`
	ConfirmedSchedule string         `json:"confirmed_schedule"`
	AdminNotes        *string        `json:"admin_notes"`
	RecordDetails     *RecordDetails `json:"record_details"`
}
