package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusevents/internal/admin"
	"campusevents/internal/attendance"
	"campusevents/internal/config"
	"campusevents/internal/event"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

// Worker consumes check-in messages and refreshes the cached counters the
// admin dashboard and event views read.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campusevents:attendance")
	}

	att := attendance.NewService(event.NewRepository(db.Client), attendance.NewRepository(db.Client), cfg.AttendanceCodeTTL)
	analytics := admin.NewService(admin.NewPostgresSource(db.Client), redisClient.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "attendance" {
			continue
		}

		var payload struct {
			EventID   string `json:"eventId"`
			StudentID string `json:"studentId"`
		}
		if err := json.Unmarshal(msg.Body, &payload); err != nil || payload.EventID == "" {
			log.Printf("skipping malformed message: %v", err)
			continue
		}

		count, err := att.CountForEvent(ctx, payload.EventID)
		if err != nil {
			log.Printf("count attendance for %s failed: %v", payload.EventID, err)
			continue
		}
		if err := redisClient.SetAttendanceCount(ctx, payload.EventID, count); err != nil {
			log.Printf("cache attendance count for %s failed: %v", payload.EventID, err)
		}

		if _, err := analytics.Recompute(ctx); err != nil {
			log.Printf("analytics recompute failed: %v", err)
		}

		log.Printf("event %s attendance count now %d", payload.EventID, count)
	}

	log.Println("worker stopped")
}
