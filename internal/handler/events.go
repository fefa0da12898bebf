package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/cloudinary"
	"campusevents/internal/event"
)

type createEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Club        string `json:"club" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	ImageURL    string `json:"image"`
}

// CreateEvent registers a new event owned by the calling faculty member.
func (h *Handler) CreateEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	evt, err := h.events.Create(c.Request.Context(), claims.Subject, event.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Club:        req.Club,
		Venue:       req.Venue,
		Date:        date,
		StartTime:   req.Time,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, evt)
}

// ListEvents returns all events.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent returns a single event with its applicants.
func (h *Handler) GetEvent(c *gin.Context) {
	evt, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

type updateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Club        string `json:"club"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ImageURL    string `json:"image"`
	Status      string `json:"status"`
}

// UpdateEvent applies a partial update; empty fields keep current values.
func (h *Handler) UpdateEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := event.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Club:        req.Club,
		Venue:       req.Venue,
		StartTime:   req.Time,
		ImageURL:    req.ImageURL,
		Status:      event.Status(req.Status),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		in.Date = date
	}

	evt, err := h.events.Update(c.Request.Context(), c.Param("id"), claims.Subject, claims.Role, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

// DeleteEvent removes an event (owner or admin).
func (h *Handler) DeleteEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	if err := h.events.Delete(c.Request.Context(), c.Param("id"), claims.Subject, claims.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ApplyToEvent records the calling student's application.
func (h *Handler) ApplyToEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	if err := h.events.Apply(c.Request.Context(), c.Param("id"), claims.Subject); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted"})
}

// ListApplicants returns an event's applicants to its owner or an admin.
func (h *Handler) ListApplicants(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	evt, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if claims.Role != auth.RoleAdmin && evt.FacultyID != claims.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to view applicants for this event"})
		return
	}
	applicants := evt.Applicants
	if applicants == nil {
		applicants = []event.Applicant{}
	}
	c.JSON(http.StatusOK, applicants)
}

// DecideApplicant sets an applicant's status (owner or admin).
func (h *Handler) DecideApplicant(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.events.Decide(c.Request.Context(), c.Param("id"), c.Param("studentId"),
		claims.Subject, claims.Role, event.ApplicantStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application status updated successfully"})
}

// UploadImage accepts a multipart file or a base64 data URL and uploads it to
// Cloudinary, returning the public URL for use as an event poster.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	var result *cloudinary.UploadResult
	var err error

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("image")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image field required"})
			return
		}
		defer file.Close()
		result, err = h.cloud.Upload(file, header.Filename)
	} else {
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err = h.cloud.UploadBase64(body.Data)
	}

	if err != nil {
		log.Printf("cloudinary upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"width":     result.Width,
		"height":    result.Height,
		"bytes":     result.Bytes,
	})
}
