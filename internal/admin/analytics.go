// Package admin aggregates the counters the admin dashboard reads.
package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "analytics:snapshot"

// Snapshot is the analytics payload served to admins.
type Snapshot struct {
	TotalEvents          int `json:"totalEvents"`
	UpcomingEvents       int `json:"upcomingEvents"`
	TotalApplications    int `json:"totalApplications"`
	ApprovedApplications int `json:"approvedApplications"`
	RejectedApplications int `json:"rejectedApplications"`
	PendingApplications  int `json:"pendingApplications"`
	TotalStudents        int `json:"totalStudents"`
	TotalFaculty         int `json:"totalFaculty"`
}

// Source computes a fresh snapshot from the store.
type Source interface {
	Compute(ctx context.Context) (Snapshot, error)
}

// PostgresSource aggregates directly from Postgres.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource creates a source.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Compute runs the aggregation queries. "approved" counts with "accepted":
// the former is a legacy alias still present on old applications.
func (s *PostgresSource) Compute(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM events WHERE event_date >= NOW()),
			(SELECT COUNT(*) FROM applicants),
			(SELECT COUNT(*) FROM applicants WHERE status IN ('accepted', 'approved')),
			(SELECT COUNT(*) FROM applicants WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM applicants WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'faculty')
	`).Scan(&snap.TotalEvents, &snap.UpcomingEvents, &snap.TotalApplications,
		&snap.ApprovedApplications, &snap.RejectedApplications, &snap.PendingApplications,
		&snap.TotalStudents, &snap.TotalFaculty)
	return snap, err
}

// Service serves snapshots through a Redis cache refreshed by the worker.
type Service struct {
	source Source
	cache  *redis.Client
	ttl    time.Duration
}

// NewService creates a service; cache may be nil to disable caching.
func NewService(source Source, cache *redis.Client) *Service {
	return &Service{source: source, cache: cache, ttl: 5 * time.Minute}
}

// Snapshot returns the cached snapshot when warm, computing it otherwise.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, snapshotKey).Result()
		if err == nil {
			var snap Snapshot
			if json.Unmarshal([]byte(raw), &snap) == nil {
				return snap, nil
			}
		}
	}
	return s.Recompute(ctx)
}

// Recompute refreshes the snapshot and, when a cache is configured, stores it.
func (s *Service) Recompute(ctx context.Context) (Snapshot, error) {
	snap, err := s.source.Compute(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(snap); err == nil {
			s.cache.Set(ctx, snapshotKey, raw, s.ttl)
		}
	}
	return snap, nil
}
