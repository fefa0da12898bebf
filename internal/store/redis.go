package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// AttendanceCountKey is the cache key for a single event's attendance total.
func AttendanceCountKey(eventID string) string {
	return "attendance:count:" + eventID
}

// SetAttendanceCount caches the attendance total for an event.
func (r *Redis) SetAttendanceCount(ctx context.Context, eventID string, count int) error {
	return r.Client.Set(ctx, AttendanceCountKey(eventID), count, 0).Err()
}

// AttendanceCount reads a cached attendance total; ok is false on a miss.
func (r *Redis) AttendanceCount(ctx context.Context, eventID string) (int, bool) {
	val, err := r.Client.Get(ctx, AttendanceCountKey(eventID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}
