package services

import (
	"context"
	"sort"
	"time"

	"parish-backend/internal/cache"
	"parish-backend/internal/matching"
	"parish-backend/internal/metrics"
	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
	"parish-backend/internal/timeutil"

	"github.com/rs/zerolog"
)

// RegistryService groups issued certificates that refer to the same
// sacrament event, so reissues show up as one lineage.
type RegistryService struct {
	Store         repositories.Store
	Clock         timeutil.Clock
	Metrics       *metrics.Metrics
	Cache         *cache.RegistryCache
	ReminderAfter time.Duration
	log           zerolog.Logger
}

func NewRegistryService(store repositories.Store, clock timeutil.Clock, m *metrics.Metrics, c *cache.RegistryCache, reminderAfter time.Duration, log zerolog.Logger) *RegistryService {
	return &RegistryService{
		Store:         store,
		Clock:         clock,
		Metrics:       m,
		Cache:         c,
		ReminderAfter: reminderAfter,
		log:           log,
	}
}

// Groups returns the registry, newest lineage first. It never writes to the
// store.
func (s *RegistryService) Groups(ctx context.Context) ([]*models.CertificateGroup, error) {
	if groups, ok := s.Cache.Get(ctx); ok {
		s.Metrics.RegistryLookup(true)
		return groups, nil
	}
	s.Metrics.RegistryLookup(false)

	certs, err := s.Store.ListCertificates(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.Store.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.Store.ListRecords(ctx, models.RecordQuery{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	markReminders(certs, s.Clock.Now(), s.ReminderAfter)

	groups := BuildRegistry(certs, requests, records)
	s.Cache.Set(ctx, groups)
	return groups, nil
}

// groupKeys resolves the lineage key of requests.
type groupKeys struct {
	// identity key of every record some request resolved to -> record id
	recordByKey map[string]string
}

func newGroupKeys(requests []*models.ServiceRequest, records []*models.SacramentRecord) groupKeys {
	byID := make(map[string]*models.SacramentRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	k := groupKeys{recordByKey: map[string]string{}}
	for _, req := range requests {
		if r, ok := byID[models.Deref(req.RecordID)]; ok {
			k.recordByKey[matching.RecordKey(r)] = r.ID
		}
	}
	return k
}

// of returns the group key of a request and the record it resolves to, if
// known. ok is false for requests that cannot be grouped with others.
func (k groupKeys) of(req *models.ServiceRequest) (key string, recordID string, ok bool) {
	if id := models.Deref(req.RecordID); id != "" {
		return "record:" + id, id, true
	}
	identity, ok := matching.RequestKey(req)
	if !ok {
		return "", "", false
	}
	if id, found := k.recordByKey[identity]; found {
		return "record:" + id, id, true
	}
	return "key:" + identity, "", true
}

// BuildRegistry is the pure projection behind Groups.
func BuildRegistry(certs []*models.IssuedCertificate, requests []*models.ServiceRequest, records []*models.SacramentRecord) []*models.CertificateGroup {
	keys := newGroupKeys(requests, records)
	requestByID := make(map[string]*models.ServiceRequest, len(requests))
	for _, req := range requests {
		requestByID[req.ID] = req
	}

	groups := map[string]*models.CertificateGroup{}
	var order []string
	for _, c := range certs {
		key, recordID := "certificate:"+c.ID, ""
		if req, found := requestByID[c.RequestID]; found {
			if k, id, ok := keys.of(req); ok {
				key, recordID = k, id
			}
		}
		g, found := groups[key]
		if !found {
			g = &models.CertificateGroup{Key: key, RecordID: models.Str(recordID)}
			groups[key] = g
			order = append(order, key)
		}
		g.Issuances = append(g.Issuances, c)
	}

	counted := map[string]map[string]bool{}
	for _, req := range requests {
		if req.Status != models.StatusApproved && req.Status != models.StatusCompleted {
			continue
		}
		if !req.Kind.IsCertificate() {
			continue
		}
		key, _, ok := keys.of(req)
		if !ok {
			continue
		}
		if counted[key] == nil {
			counted[key] = map[string]bool{}
		}
		counted[key][req.ID] = true
	}
	// certificates issued against non-certificate requests still count their own request
	for _, key := range order {
		for _, c := range groups[key].Issuances {
			req, found := requestByID[c.RequestID]
			if !found || (req.Status != models.StatusApproved && req.Status != models.StatusCompleted) {
				continue
			}
			if counted[key] == nil {
				counted[key] = map[string]bool{}
			}
			counted[key][req.ID] = true
		}
	}

	out := make([]*models.CertificateGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g.Issuances, func(i, j int) bool {
			a, b := g.Issuances[i], g.Issuances[j]
			if !a.DateIssued.Equal(b.DateIssued) {
				return a.DateIssued.After(b.DateIssued)
			}
			return a.ID > b.ID
		})
		g.Latest = g.Issuances[0]
		for _, c := range g.Issuances {
			if c.Status != models.CertificateUploaded || c.UploadedAt == nil {
				continue
			}
			if g.LatestFile == nil || c.UploadedAt.After(*g.LatestFile.UploadedAt) {
				g.LatestFile = c
			}
		}
		g.IssueCount = len(g.Issuances)
		g.RequestCount = len(counted[key])
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Latest, out[j].Latest
		if !a.DateIssued.Equal(b.DateIssued) {
			return a.DateIssued.After(b.DateIssued)
		}
		return a.ID > b.ID
	})
	return out
}
