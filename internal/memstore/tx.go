package memstore

import (
	"context"

	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
)

// txStore operates on a transaction's working copy. The owning Store holds
// the write lock for its whole lifetime.
type txStore struct {
	st *state
}

func (t *txStore) RunInTx(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

func (t *txStore) CreateRecord(_ context.Context, r *models.SacramentRecord) error {
	return t.st.createRecord(r)
}

func (t *txStore) UpdateRecord(_ context.Context, r *models.SacramentRecord) error {
	return t.st.updateRecord(r)
}

func (t *txStore) GetRecord(_ context.Context, id string) (*models.SacramentRecord, error) {
	return t.st.getRecord(id)
}

func (t *txStore) ListRecords(_ context.Context, q models.RecordQuery) ([]*models.SacramentRecord, error) {
	return t.st.listRecords(q), nil
}

func (t *txStore) DetachRecords(_ context.Context, requestID string) error {
	t.st.detachRecords(requestID)
	return nil
}

func (t *txStore) CreateRequest(_ context.Context, req *models.ServiceRequest) error {
	return t.st.createRequest(req)
}

func (t *txStore) GetRequest(_ context.Context, id string) (*models.ServiceRequest, error) {
	return t.st.getRequest(id)
}

func (t *txStore) LockRequest(_ context.Context, id string) (*models.ServiceRequest, error) {
	return t.st.getRequest(id)
}

func (t *txStore) ListRequests(_ context.Context) ([]*models.ServiceRequest, error) {
	return t.st.listRequests(nil), nil
}

func (t *txStore) UpdateRequest(_ context.Context, req *models.ServiceRequest) error {
	return t.st.updateRequest(req)
}

func (t *txStore) DeleteRequest(_ context.Context, id string) error {
	return t.st.deleteRequest(id)
}

func (t *txStore) ListIssuedRequests(_ context.Context, st models.SacramentType) ([]*models.ServiceRequest, error) {
	kind := models.CertificateKind(st)
	return t.st.listRequests(func(req models.ServiceRequest) bool {
		return req.Kind == kind && t.st.hasCertificate(req.ID)
	}), nil
}

func (t *txStore) CreateCertificate(_ context.Context, c *models.IssuedCertificate) error {
	return t.st.createCertificate(c)
}

func (t *txStore) GetCertificate(_ context.Context, id string) (*models.IssuedCertificate, error) {
	return t.st.getCertificate(id)
}

func (t *txStore) GetCertificateByRequest(_ context.Context, requestID string) (*models.IssuedCertificate, error) {
	return t.st.getCertificateByRequest(requestID)
}

func (t *txStore) ListCertificates(_ context.Context) ([]*models.IssuedCertificate, error) {
	return t.st.listCertificates(), nil
}

func (t *txStore) SaveCertificateFile(_ context.Context, c *models.IssuedCertificate) error {
	return t.st.saveCertificateFile(c)
}

func (t *txStore) DeleteCertificatesByRequest(_ context.Context, requestID string) error {
	t.st.deleteCertificatesByRequest(requestID)
	return nil
}

func (t *txStore) CreateUser(_ context.Context, u *models.User) error {
	return t.st.createUser(u)
}

func (t *txStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return t.st.getUser(username)
}
