package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"parish-backend/internal/apperr"
	"parish-backend/internal/models"
)

const certificateColumns = `id, request_id, type, recipient_name, requester_name, date_issued, issued_by,
	delivery_method, notes, status, file_name, file_mime_type, file_size, uploaded_at, uploaded_by`

func scanCertificate(row pgx.Row, withFile bool) (*models.IssuedCertificate, error) {
	var c models.IssuedCertificate
	dest := []any{&c.ID, &c.RequestID, &c.Type, &c.RecipientName, &c.RequesterName, &c.DateIssued, &c.IssuedBy,
		&c.DeliveryMethod, &c.Notes, &c.Status, &c.FileName, &c.FileMimeType, &c.FileSize, &c.UploadedAt, &c.UploadedBy}
	if withFile {
		dest = append(dest, &c.FileData)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCertificate(ctx context.Context, c *models.IssuedCertificate) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO issued_certificates(`+certificateColumns+`, file_data)
		 VALUES(`+placeholders(16)+`)`,
		c.ID, c.RequestID, c.Type, c.RecipientName, c.RequesterName, c.DateIssued, c.IssuedBy,
		c.DeliveryMethod, c.Notes, c.Status, c.FileName, c.FileMimeType, c.FileSize, c.UploadedAt, c.UploadedBy,
		c.FileData)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyIssued
	}
	return err
}

func (s *PostgresStore) GetCertificate(ctx context.Context, id string) (*models.IssuedCertificate, error) {
	return scanCertificate(s.db.QueryRow(ctx,
		`SELECT `+certificateColumns+`, file_data FROM issued_certificates WHERE id=$1`, id), true)
}

func (s *PostgresStore) GetCertificateByRequest(ctx context.Context, requestID string) (*models.IssuedCertificate, error) {
	return scanCertificate(s.db.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM issued_certificates WHERE request_id=$1`, requestID), false)
}

func (s *PostgresStore) ListCertificates(ctx context.Context) ([]*models.IssuedCertificate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+certificateColumns+` FROM issued_certificates ORDER BY date_issued DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []*models.IssuedCertificate
	for rows.Next() {
		c, err := scanCertificate(rows, false)
		if err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (s *PostgresStore) SaveCertificateFile(ctx context.Context, c *models.IssuedCertificate) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE issued_certificates
		 SET status=$2, file_name=$3, file_mime_type=$4, file_size=$5, file_data=$6, uploaded_at=$7, uploaded_by=$8
		 WHERE id=$1`,
		c.ID, c.Status, c.FileName, c.FileMimeType, c.FileSize, c.FileData, c.UploadedAt, c.UploadedBy)
	if err != nil {
		return err
	}
	return affectedOne(tag)
}

func (s *PostgresStore) DeleteCertificatesByRequest(ctx context.Context, requestID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM issued_certificates WHERE request_id=$1`, requestID)
	return err
}
