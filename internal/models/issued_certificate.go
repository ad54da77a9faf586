package models

import "time"

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "PICKUP"
	DeliveryEmail   DeliveryMethod = "EMAIL"
	DeliveryCourier DeliveryMethod = "COURIER"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryPickup || d == DeliveryEmail || d == DeliveryCourier
}

type CertificateStatus string

const (
	CertificatePendingUpload CertificateStatus = "PENDING_UPLOAD"
	CertificateUploaded      CertificateStatus = "UPLOADED"
)

type IssuedCertificate struct {
	ID             string            `json:"id" db:"id"`
	RequestID      string            `json:"request_id" db:"request_id"`
	Type           string            `json:"type" db:"type"` // service type of the owning request
	RecipientName  string            `json:"recipient_name" db:"recipient_name"`
	RequesterName  string            `json:"requester_name" db:"requester_name"`
	DateIssued     time.Time         `json:"date_issued" db:"date_issued"`
	IssuedBy       string            `json:"issued_by" db:"issued_by"`
	DeliveryMethod DeliveryMethod    `json:"delivery_method" db:"delivery_method"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	Status         CertificateStatus `json:"status" db:"status"`
	FileName       *string           `json:"file_name,omitempty" db:"file_name"`
	FileMimeType   *string           `json:"file_mime_type,omitempty" db:"file_mime_type"`
	FileSize       *int64            `json:"file_size,omitempty" db:"file_size"`
	FileData       []byte            `json:"-" db:"file_data"`
	UploadedAt     *time.Time        `json:"uploaded_at,omitempty" db:"uploaded_at"`
	UploadedBy     *string           `json:"uploaded_by,omitempty" db:"uploaded_by"`

	NeedsUploadReminder bool `json:"needs_upload_reminder"`
}

type IssueCertificateInput struct {
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	IssuedBy       string         `json:"issued_by"`
	Notes          string         `json:"notes"`
}

type UploadCertificateInput struct {
	FileName   string
	MimeType   string
	Data       []byte
	UploadedBy string
}

// CertificateFile is a downloadable certificate payload.
type CertificateFile struct {
	FileName string
	MimeType string
	Data     []byte
}

// CertificateGroup is one logical certificate in the registry: every
// issuance that refers to the same underlying sacrament record.
type CertificateGroup struct {
	Key          string               `json:"key"`
	RecordID     *string              `json:"record_id,omitempty"`
	Latest       *IssuedCertificate   `json:"latest"`
	LatestFile   *IssuedCertificate   `json:"latest_file,omitempty"` // most recently uploaded member
	Issuances    []*IssuedCertificate `json:"issuances"`
	IssueCount   int                  `json:"issue_count"`
	RequestCount int                  `json:"request_count"`
}
