package health

import (
	"context"
	"time"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthChecker struct {
	db    Pinger // nil when running on the in-memory store
	cache Pinger // nil when Redis is not configured
}

type HealthStatus struct {
	Status   string            `json:"status"`
	Database *DependencyHealth `json:"database,omitempty"`
	Cache    *DependencyHealth `json:"cache,omitempty"`
}

type DependencyHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

func NewHealthChecker(db, cache Pinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// CheckBasic pings every configured dependency. Only the database decides
// readiness; the registry cache is optional.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy"}
	if h.db != nil {
		status.Database = check(ctx, h.db)
		if status.Database.Status != "healthy" {
			status.Status = "unhealthy"
		}
	}
	if h.cache != nil {
		status.Cache = check(ctx, h.cache)
	}
	return status
}

func check(ctx context.Context, p Pinger) *DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return &DependencyHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return &DependencyHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
