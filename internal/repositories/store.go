package repositories

import (
	"context"

	"parish-backend/internal/models"
)

// Store is the persistence boundary of the parish services. Postgres backs it
// in production; memstore backs it in tests and demo mode.
//
// Lists of records come back newest sacrament date first, lists of requests
// newest submission first and lists of certificates newest issue date first.
// Lookups of missing rows return apperr.ErrNotFound.
type Store interface {
	RecordStore
	RequestStore
	CertificateStore
	UserStore

	// RunInTx runs fn against a store bound to a single transaction. Returning
	// an error from fn rolls every change back. Nested calls join the outer
	// transaction.
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}

type RecordStore interface {
	CreateRecord(ctx context.Context, r *models.SacramentRecord) error
	UpdateRecord(ctx context.Context, r *models.SacramentRecord) error
	GetRecord(ctx context.Context, id string) (*models.SacramentRecord, error)
	ListRecords(ctx context.Context, q models.RecordQuery) ([]*models.SacramentRecord, error)
	// DetachRecords clears request_id on every record pointing at the request.
	DetachRecords(ctx context.Context, requestID string) error
}

type RequestStore interface {
	CreateRequest(ctx context.Context, req *models.ServiceRequest) error
	GetRequest(ctx context.Context, id string) (*models.ServiceRequest, error)
	// LockRequest reads the request and holds a write lock on it until the
	// surrounding transaction ends.
	LockRequest(ctx context.Context, id string) (*models.ServiceRequest, error)
	ListRequests(ctx context.Context) ([]*models.ServiceRequest, error)
	UpdateRequest(ctx context.Context, req *models.ServiceRequest) error
	DeleteRequest(ctx context.Context, id string) error
	// ListIssuedRequests returns certificate requests of the given sacrament
	// type that already have at least one certificate issued.
	ListIssuedRequests(ctx context.Context, t models.SacramentType) ([]*models.ServiceRequest, error)
}

type CertificateStore interface {
	// CreateCertificate fails with apperr.ErrAlreadyIssued when the request
	// already owns a certificate.
	CreateCertificate(ctx context.Context, c *models.IssuedCertificate) error
	// GetCertificate includes the file payload.
	GetCertificate(ctx context.Context, id string) (*models.IssuedCertificate, error)
	GetCertificateByRequest(ctx context.Context, requestID string) (*models.IssuedCertificate, error)
	// ListCertificates omits file payloads.
	ListCertificates(ctx context.Context) ([]*models.IssuedCertificate, error)
	// SaveCertificateFile stores status, file metadata and payload.
	SaveCertificateFile(ctx context.Context, c *models.IssuedCertificate) error
	DeleteCertificatesByRequest(ctx context.Context, requestID string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
