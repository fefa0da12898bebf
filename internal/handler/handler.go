// Package handler wires the HTTP surface over the domain services.
package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/internal/admin"
	"campusevents/internal/apperr"
	"campusevents/internal/attendance"
	"campusevents/internal/cloudinary"
	"campusevents/internal/config"
	"campusevents/internal/event"
	"campusevents/internal/queue"
	"campusevents/internal/user"
)

// Handler holds the services the HTTP layer dispatches to.
type Handler struct {
	cfg       config.App
	users     *user.Service
	events    *event.Service
	att       *attendance.Service
	analytics *admin.Service
	q         queue.Queue
	cloud     *cloudinary.Client // nil when Cloudinary is not configured
}

// New creates a handler.
func New(cfg config.App, users *user.Service, events *event.Service, att *attendance.Service, analytics *admin.Service, q queue.Queue, cloud *cloudinary.Client) *Handler {
	return &Handler{cfg: cfg, users: users, events: events, att: att, analytics: analytics, q: q, cloud: cloud}
}

// respondError maps the error taxonomy onto HTTP statuses. Unclassified
// errors are logged and masked as a generic server error.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// parseDate accepts RFC3339 timestamps or bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
