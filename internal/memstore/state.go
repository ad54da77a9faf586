package memstore

import (
	"sort"
	"strings"

	"parish-backend/internal/apperr"
	"parish-backend/internal/matching"
	"parish-backend/internal/models"
)

// state holds values, never pointers, so a shallow map copy is a snapshot.
// Pointer fields inside the structs are replaced on update, never written
// through.
type state struct {
	records      map[string]models.SacramentRecord
	requests     map[string]models.ServiceRequest
	certificates map[string]models.IssuedCertificate
	users        map[string]models.User
}

func newState() *state {
	return &state{
		records:      map[string]models.SacramentRecord{},
		requests:     map[string]models.ServiceRequest{},
		certificates: map[string]models.IssuedCertificate{},
		users:        map[string]models.User{},
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.records {
		c.records[k] = v
	}
	for k, v := range st.requests {
		c.requests[k] = v
	}
	for k, v := range st.certificates {
		c.certificates[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

func (st *state) createRecord(r *models.SacramentRecord) error {
	st.records[r.ID] = *r
	return nil
}

func (st *state) updateRecord(r *models.SacramentRecord) error {
	if _, ok := st.records[r.ID]; !ok {
		return apperr.ErrNotFound
	}
	st.records[r.ID] = *r
	return nil
}

func (st *state) getRecord(id string) (*models.SacramentRecord, error) {
	r, ok := st.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &r, nil
}

func (st *state) listRecords(q models.RecordQuery) []*models.SacramentRecord {
	var out []*models.SacramentRecord
	for _, r := range st.records {
		if q.Type != "" && r.Type != q.Type {
			continue
		}
		if !q.IncludeArchived && r.IsArchived {
			continue
		}
		if q.RequestID != "" && models.Deref(r.RequestID) != q.RequestID {
			continue
		}
		if !nameFilter(q.Name, r.Name) ||
			!nameFilter(q.GroomName, models.Deref(r.GroomName)) ||
			!nameFilter(q.BrideName, models.Deref(r.BrideName)) {
			continue
		}
		out = append(out, &r)
	}
	matching.SortRecentFirst(out)
	return out
}

func nameFilter(want, have string) bool {
	return want == "" || matching.NormalizeName(want) == matching.NormalizeName(have)
}

func (st *state) detachRecords(requestID string) {
	for id, r := range st.records {
		if models.Deref(r.RequestID) == requestID {
			r.RequestID = nil
			st.records[id] = r
		}
	}
}

func (st *state) createRequest(req *models.ServiceRequest) error {
	st.requests[req.ID] = *req
	return nil
}

func (st *state) getRequest(id string) (*models.ServiceRequest, error) {
	req, ok := st.requests[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &req, nil
}

func (st *state) updateRequest(req *models.ServiceRequest) error {
	cur, ok := st.requests[req.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Status = req.Status
	cur.ConfirmedSchedule = req.ConfirmedSchedule
	cur.AdminNotes = req.AdminNotes
	cur.RecordID = req.RecordID
	cur.UpdatedAt = req.UpdatedAt
	st.requests[req.ID] = cur
	return nil
}

func (st *state) deleteRequest(id string) error {
	if _, ok := st.requests[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(st.requests, id)
	return nil
}

func (st *state) listRequests(keep func(models.ServiceRequest) bool) []*models.ServiceRequest {
	var out []*models.ServiceRequest
	for _, req := range st.requests {
		if keep != nil && !keep(req) {
			continue
		}
		out = append(out, &req)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmissionDate.Equal(out[j].SubmissionDate) {
			return out[i].SubmissionDate.After(out[j].SubmissionDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (st *state) hasCertificate(requestID string) bool {
	for _, c := range st.certificates {
		if c.RequestID == requestID {
			return true
		}
	}
	return false
}

func (st *state) createCertificate(c *models.IssuedCertificate) error {
	if st.hasCertificate(c.RequestID) {
		return apperr.ErrAlreadyIssued
	}
	st.certificates[c.ID] = *c
	return nil
}

func (st *state) getCertificate(id string) (*models.IssuedCertificate, error) {
	c, ok := st.certificates[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (st *state) getCertificateByRequest(requestID string) (*models.IssuedCertificate, error) {
	for _, c := range st.certificates {
		if c.RequestID == requestID {
			c.FileData = nil
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (st *state) listCertificates() []*models.IssuedCertificate {
	out := make([]*models.IssuedCertificate, 0, len(st.certificates))
	for _, c := range st.certificates {
		c.FileData = nil
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DateIssued.Equal(out[j].DateIssued) {
			return out[i].DateIssued.After(out[j].DateIssued)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (st *state) saveCertificateFile(c *models.IssuedCertificate) error {
	cur, ok := st.certificates[c.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Status = c.Status
	cur.FileName = c.FileName
	cur.FileMimeType = c.FileMimeType
	cur.FileSize = c.FileSize
	cur.FileData = c.FileData
	cur.UploadedAt = c.UploadedAt
	cur.UploadedBy = c.UploadedBy
	st.certificates[c.ID] = cur
	return nil
}

func (st *state) deleteCertificatesByRequest(requestID string) {
	for id, c := range st.certificates {
		if c.RequestID == requestID {
			delete(st.certificates, id)
		}
	}
}

func (st *state) createUser(u *models.User) error {
	key := strings.ToLower(u.Username)
	if _, ok := st.users[key]; ok {
		return apperr.Invalid("username", "username %q is taken", u.Username)
	}
	st.users[key] = *u
	return nil
}

func (st *state) getUser(username string) (*models.User, error) {
	u, ok := st.users[strings.ToLower(username)]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}
