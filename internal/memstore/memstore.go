// Package memstore is an in-memory repositories.Store. Transactions run
// against a private copy of the state that replaces the shared one only when
// the callback succeeds, so a failed operation leaves nothing behind.
package memstore

import (
	"context"
	"sync"

	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
)

type Store struct {
	mu    sync.RWMutex
	state *state
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: newState()}
}

// RunInTx serializes writers. The callback must only use the tx it is given;
// calling back into s would deadlock.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&txStore{st: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *Store) write(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.RunInTx(ctx, fn)
}

func (s *Store) CreateRecord(ctx context.Context, r *models.SacramentRecord) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.CreateRecord(ctx, r) })
}

func (s *Store) UpdateRecord(ctx context.Context, r *models.SacramentRecord) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.UpdateRecord(ctx, r) })
}

func (s *Store) GetRecord(_ context.Context, id string) (r *models.SacramentRecord, err error) {
	err = s.read(func(st *state) error {
		r, err = st.getRecord(id)
		return err
	})
	return r, err
}

func (s *Store) ListRecords(_ context.Context, q models.RecordQuery) (records []*models.SacramentRecord, err error) {
	err = s.read(func(st *state) error {
		records = st.listRecords(q)
		return nil
	})
	return records, err
}

func (s *Store) DetachRecords(ctx context.Context, requestID string) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.DetachRecords(ctx, requestID) })
}

func (s *Store) CreateRequest(ctx context.Context, req *models.ServiceRequest) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.CreateRequest(ctx, req) })
}

func (s *Store) GetRequest(_ context.Context, id string) (req *models.ServiceRequest, err error) {
	err = s.read(func(st *state) error {
		req, err = st.getRequest(id)
		return err
	})
	return req, err
}

// LockRequest outside a transaction is a plain read.
func (s *Store) LockRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return s.GetRequest(ctx, id)
}

func (s *Store) ListRequests(_ context.Context) (requests []*models.ServiceRequest, err error) {
	err = s.read(func(st *state) error {
		requests = st.listRequests(nil)
		return nil
	})
	return requests, err
}

func (s *Store) UpdateRequest(ctx context.Context, req *models.ServiceRequest) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.UpdateRequest(ctx, req) })
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.DeleteRequest(ctx, id) })
}

func (s *Store) ListIssuedRequests(ctx context.Context, t models.SacramentType) (requests []*models.ServiceRequest, err error) {
	err = s.read(func(st *state) error {
		requests, err = (&txStore{st: st}).ListIssuedRequests(ctx, t)
		return err
	})
	return requests, err
}

func (s *Store) CreateCertificate(ctx context.Context, c *models.IssuedCertificate) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.CreateCertificate(ctx, c) })
}

func (s *Store) GetCertificate(_ context.Context, id string) (c *models.IssuedCertificate, err error) {
	err = s.read(func(st *state) error {
		c, err = st.getCertificate(id)
		return err
	})
	return c, err
}

func (s *Store) GetCertificateByRequest(_ context.Context, requestID string) (c *models.IssuedCertificate, err error) {
	err = s.read(func(st *state) error {
		c, err = st.getCertificateByRequest(requestID)
		return err
	})
	return c, err
}

func (s *Store) ListCertificates(_ context.Context) (certs []*models.IssuedCertificate, err error) {
	err = s.read(func(st *state) error {
		certs = st.listCertificates()
		return nil
	})
	return certs, err
}

func (s *Store) SaveCertificateFile(ctx context.Context, c *models.IssuedCertificate) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.SaveCertificateFile(ctx, c) })
}

func (s *Store) DeleteCertificatesByRequest(ctx context.Context, requestID string) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.DeleteCertificatesByRequest(ctx, requestID) })
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.write(ctx, func(tx repositories.Store) error { return tx.CreateUser(ctx, u) })
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (u *models.User, err error) {
	err = s.read(func(st *state) error {
		u, err = st.getUser(username)
		return err
	})
	return u, err
}
