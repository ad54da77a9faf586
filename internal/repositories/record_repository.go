package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"parish-backend/internal/matching"
	"parish-backend/internal/models"
)

const recordColumns = `id, name, type, date, officiant, details,
	father_name, mother_name, birth_date, birth_place, baptism_date, baptism_place, sponsors,
	register_book, register_page, register_line,
	residence, date_of_death, cause_of_death, place_of_burial,
	groom_name, bride_name, groom_age, bride_age, groom_residence, bride_residence,
	groom_nationality, bride_nationality, groom_father_name, bride_father_name,
	groom_mother_name, bride_mother_name,
	is_archived, archived_at, archived_by, archive_reason,
	request_id, created_at, updated_at`

func scanRecord(row pgx.Row) (*models.SacramentRecord, error) {
	var r models.SacramentRecord
	var date, birthDate, baptismDate, dateOfDeath pgtype.Date
	err := row.Scan(&r.ID, &r.Name, &r.Type, &date, &r.Officiant, &r.Details,
		&r.FatherName, &r.MotherName, &birthDate, &r.BirthPlace, &baptismDate, &r.BaptismPlace, &r.Sponsors,
		&r.RegisterBook, &r.RegisterPage, &r.RegisterLine,
		&r.Residence, &dateOfDeath, &r.CauseOfDeath, &r.PlaceOfBurial,
		&r.GroomName, &r.BrideName, &r.GroomAge, &r.BrideAge, &r.GroomResidence, &r.BrideResidence,
		&r.GroomNationality, &r.BrideNationality, &r.GroomFatherName, &r.BrideFatherName,
		&r.GroomMotherName, &r.BrideMotherName,
		&r.IsArchived, &r.ArchivedAt, &r.ArchivedBy, &r.ArchiveReason,
		&r.RequestID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if d := dateValue(date); d != nil {
		r.Date = *d
	}
	r.BirthDate = dateValue(birthDate)
	r.BaptismDate = dateValue(baptismDate)
	r.DateOfDeath = dateValue(dateOfDeath)
	return &r, nil
}

func recordArgs(r *models.SacramentRecord) []any {
	return []any{r.ID, r.Name, r.Type, dateArg(&r.Date), r.Officiant, r.Details,
		r.FatherName, r.MotherName, dateArg(r.BirthDate), r.BirthPlace, dateArg(r.BaptismDate), r.BaptismPlace, r.Sponsors,
		r.RegisterBook, r.RegisterPage, r.RegisterLine,
		r.Residence, dateArg(r.DateOfDeath), r.CauseOfDeath, r.PlaceOfBurial,
		r.GroomName, r.BrideName, r.GroomAge, r.BrideAge, r.GroomResidence, r.BrideResidence,
		r.GroomNationality, r.BrideNationality, r.GroomFatherName, r.BrideFatherName,
		r.GroomMotherName, r.BrideMotherName,
		r.IsArchived, r.ArchivedAt, r.ArchivedBy, r.ArchiveReason,
		r.RequestID, r.CreatedAt, r.UpdatedAt}
}

func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(p, ", ")
}

var (
	insertRecordSQL = `INSERT INTO sacrament_records(` + recordColumns + `) VALUES(` + placeholders(39) + `)`
	updateRecordSQL = `UPDATE sacrament_records SET
		name=$2, type=$3, date=$4, officiant=$5, details=$6,
		father_name=$7, mother_name=$8, birth_date=$9, birth_place=$10, baptism_date=$11, baptism_place=$12, sponsors=$13,
		register_book=$14, register_page=$15, register_line=$16,
		residence=$17, date_of_death=$18, cause_of_death=$19, place_of_burial=$20,
		groom_name=$21, bride_name=$22, groom_age=$23, bride_age=$24, groom_residence=$25, bride_residence=$26,
		groom_nationality=$27, bride_nationality=$28, groom_father_name=$29, bride_father_name=$30,
		groom_mother_name=$31, bride_mother_name=$32,
		is_archived=$33, archived_at=$34, archived_by=$35, archive_reason=$36,
		request_id=$37, created_at=$38, updated_at=$39
		WHERE id=$1`
)

func (s *PostgresStore) CreateRecord(ctx context.Context, r *models.SacramentRecord) error {
	_, err := s.db.Exec(ctx, insertRecordSQL, recordArgs(r)...)
	return err
}

func (s *PostgresStore) UpdateRecord(ctx context.Context, r *models.SacramentRecord) error {
	tag, err := s.db.Exec(ctx, updateRecordSQL, recordArgs(r)...)
	if err != nil {
		return err
	}
	return affectedOne(tag)
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*models.SacramentRecord, error) {
	return scanRecord(s.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM sacrament_records WHERE id=$1`, id))
}

// ListRecords filters by type, archive state, request link and names.
// Name filters are case-insensitive and whitespace-normalized on both sides.
func (s *PostgresStore) ListRecords(ctx context.Context, q models.RecordQuery) ([]*models.SacramentRecord, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if q.Type != "" {
		add("type = $%d", q.Type)
	}
	if !q.IncludeArchived {
		where = append(where, "is_archived = FALSE")
	}
	if q.RequestID != "" {
		add("request_id = $%d", q.RequestID)
	}
	if q.Name != "" {
		add("lower(regexp_replace(btrim(name), '\\s+', ' ', 'g')) = $%d", matching.NormalizeName(q.Name))
	}
	if q.GroomName != "" {
		add("lower(regexp_replace(btrim(groom_name), '\\s+', ' ', 'g')) = $%d", matching.NormalizeName(q.GroomName))
	}
	if q.BrideName != "" {
		add("lower(regexp_replace(btrim(bride_name), '\\s+', ' ', 'g')) = $%d", matching.NormalizeName(q.BrideName))
	}

	sql := `SELECT ` + recordColumns + ` FROM sacrament_records`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY date DESC, created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.SacramentRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) DetachRecords(ctx context.Context, requestID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE sacrament_records SET request_id = NULL, updated_at = NOW() WHERE request_id = $1`, requestID)
	return err
}
