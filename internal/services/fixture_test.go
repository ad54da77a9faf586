package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parish-backend/internal/certificates"
	"parish-backend/internal/logger"
	"parish-backend/internal/memstore"
	"parish-backend/internal/metrics"
	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 10, 0, 0, 0, timeutil.PHT)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.PHT)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeArchive struct {
	mu     sync.Mutex
	stored []string
	err    error
}

func (a *fakeArchive) Store(_ context.Context, cert *models.IssuedCertificate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stored = append(a.stored, cert.ID)
	return a.err
}

type fixture struct {
	ctx       context.Context
	store     *memstore.Store
	clock     *testClock
	metrics   *metrics.Metrics
	archive   *fakeArchive
	renderErr error

	requests *RequestService
	certs    *CertificateService
	records  *RecordService
	registry *RegistryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:     context.Background(),
		store:   memstore.New(),
		clock:   &testClock{t: testNow},
		metrics: metrics.New(prometheus.NewRegistry()),
		archive: &fakeArchive{},
	}
	log := logger.Nop()
	renderer := certificates.RendererFunc(func(ctx context.Context, doc string) ([]byte, error) {
		if f.renderErr != nil {
			return nil, f.renderErr
		}
		return []byte("%PDF-1.3 " + doc), nil
	})
	opts := CertificateOptions{
		Letterhead:    certificates.Letterhead{Diocese: "Diocese of Borongan", ParishName: "Our Lady of the Miraculous Medal"},
		UploadLimit:   1024,
		ReminderAfter: 24 * time.Hour,
	}
	f.requests = NewRequestService(f.store, f.clock, f.metrics, nil, log)
	f.certs = NewCertificateService(f.store, renderer, f.archive, f.clock, f.metrics, nil, opts, log)
	f.records = NewRecordService(f.store, f.clock, nil, log)
	f.registry = NewRegistryService(f.store, f.clock, f.metrics, nil, opts.ReminderAfter, log)
	return f
}

// seedRecord stores an active record and returns it.
func (f *fixture) seedRecord(t *testing.T, r models.SacramentRecord) *models.SacramentRecord {
	t.Helper()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Officiant == "" {
		r.Officiant = "Rev. Fr. Jose Ramos"
	}
	if r.Details == "" {
		r.Details = "Entered from the parish register."
	}
	r.CreatedAt = f.clock.Now()
	r.UpdatedAt = r.CreatedAt
	require.NoError(t, f.store.CreateRecord(f.ctx, &r))
	return &r
}

func (f *fixture) seedBaptism(t *testing.T, name string, birth, baptized time.Time) *models.SacramentRecord {
	t.Helper()
	return f.seedRecord(t, models.SacramentRecord{
		Name:      name,
		Type:      models.SacramentBaptism,
		Date:      baptized,
		BirthDate: &birth,
	})
}

func baptismCertificateInput(name, birthDate string) *models.SubmitRequestInput {
	return &models.SubmitRequestInput{
		Category:                      models.CategoryCertificate,
		ServiceType:                   "Baptismal Certificate",
		RequesterName:                 "Ana Dela Cruz",
		ContactInfo:                   "09171234567",
		Details:                       "For school enrollment",
		CertificateRecipientName:      name,
		CertificateRecipientBirthDate: birthDate,
	}
}

func (f *fixture) submit(t *testing.T, in *models.SubmitRequestInput) *models.ServiceRequest {
	t.Helper()
	res, err := f.requests.Submit(f.ctx, in)
	require.NoError(t, err)
	return res.Request
}

func (f *fixture) issue(t *testing.T, requestID string) *models.IssuedCertificate {
	t.Helper()
	cert, err := f.certs.Issue(f.ctx, requestID, &models.IssueCertificateInput{
		DeliveryMethod: models.DeliveryPickup,
		IssuedBy:       "secretary",
	})
	require.NoError(t, err)
	return cert
}

func (f *fixture) request(t *testing.T, id string) *models.ServiceRequest {
	t.Helper()
	req, err := f.store.GetRequest(f.ctx, id)
	require.NoError(t, err)
	return req
}

var errRenderer = errors.New("renderer unavailable")
