package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"parish-backend/internal/models"
)

const requestColumns = `id, category, service_type, kind, requester_name, contact_info, preferred_date, details,
	confirmation_candidate_name, confirmation_candidate_birth_date,
	funeral_deceased_name, funeral_residence, funeral_date_of_death, funeral_place_of_burial,
	marriage_groom_name, marriage_bride_name, marriage_date,
	certificate_recipient_name, certificate_recipient_birth_date, certificate_recipient_death_date,
	requester_relationship,
	status, submission_date, confirmed_schedule, admin_notes, record_id, is_reissue, reissue_reason,
	created_at, updated_at`

func scanRequest(row pgx.Row) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	var candidateBirth, deathDate, marriageDate, recipientBirth, recipientDeath pgtype.Date
	err := row.Scan(&req.ID, &req.Category, &req.ServiceType, &req.Kind, &req.RequesterName, &req.ContactInfo,
		&req.PreferredDate, &req.Details,
		&req.ConfirmationCandidateName, &candidateBirth,
		&req.FuneralDeceasedName, &req.FuneralResidence, &deathDate, &req.FuneralPlaceOfBurial,
		&req.MarriageGroomName, &req.MarriageBrideName, &marriageDate,
		&req.CertificateRecipientName, &recipientBirth, &recipientDeath,
		&req.RequesterRelationship,
		&req.Status, &req.SubmissionDate, &req.ConfirmedSchedule, &req.AdminNotes, &req.RecordID,
		&req.IsReissue, &req.ReissueReason,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	req.ConfirmationCandidateBirthDate = dateValue(candidateBirth)
	req.FuneralDateOfDeath = dateValue(deathDate)
	req.MarriageDate = dateValue(marriageDate)
	req.CertificateRecipientBirthDate = dateValue(recipientBirth)
	req.CertificateRecipientDeathDate = dateValue(recipientDeath)
	return &req, nil
}

func requestArgs(req *models.ServiceRequest) []any {
	return []any{req.ID, req.Category, req.ServiceType, req.Kind, req.RequesterName, req.ContactInfo,
		req.PreferredDate, req.Details,
		req.ConfirmationCandidateName, dateArg(req.ConfirmationCandidateBirthDate),
		req.FuneralDeceasedName, req.FuneralResidence, dateArg(req.FuneralDateOfDeath), req.FuneralPlaceOfBurial,
		req.MarriageGroomName, req.MarriageBrideName, dateArg(req.MarriageDate),
		req.CertificateRecipientName, dateArg(req.CertificateRecipientBirthDate), dateArg(req.CertificateRecipientDeathDate),
		req.RequesterRelationship,
		req.Status, req.SubmissionDate, req.ConfirmedSchedule, req.AdminNotes, req.RecordID,
		req.IsReissue, req.ReissueReason,
		req.CreatedAt, req.UpdatedAt}
}

var insertRequestSQL = `INSERT INTO service_requests(` + requestColumns + `) VALUES(` + placeholders(30) + `)`

func (s *PostgresStore) CreateRequest(ctx context.Context, req *models.ServiceRequest) error {
	_, err := s.db.Exec(ctx, insertRequestSQL, requestArgs(req)...)
	return err
}

func (s *PostgresStore) GetRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return scanRequest(s.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM service_requests WHERE id=$1`, id))
}

func (s *PostgresStore) LockRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return scanRequest(s.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM service_requests WHERE id=$1 FOR UPDATE`, id))
}

func (s *PostgresStore) ListRequests(ctx context.Context) ([]*models.ServiceRequest, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM service_requests ORDER BY submission_date DESC, id DESC`)
}

// UpdateRequest rewrites the mutable admin-side fields. Submitted form data
// never changes after submission.
func (s *PostgresStore) UpdateRequest(ctx context.Context, req *models.ServiceRequest) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE service_requests
		 SET status=$2, confirmed_schedule=$3, admin_notes=$4, record_id=$5, updated_at=$6
		 WHERE id=$1`,
		req.ID, req.Status, req.ConfirmedSchedule, req.AdminNotes, req.RecordID, req.UpdatedAt)
	if err != nil {
		return err
	}
	return affectedOne(tag)
}

func (s *PostgresStore) DeleteRequest(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM service_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affectedOne(tag)
}

func (s *PostgresStore) ListIssuedRequests(ctx context.Context, t models.SacramentType) ([]*models.ServiceRequest, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM service_requests sr
		 WHERE sr.kind = $1
		   AND EXISTS (SELECT 1 FROM issued_certificates ic WHERE ic.request_id = sr.id)
		 ORDER BY sr.submission_date DESC, sr.id DESC`,
		models.CertificateKind(t))
}

func (s *PostgresStore) queryRequests(ctx context.Context, sql string, args ...any) ([]*models.ServiceRequest, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
