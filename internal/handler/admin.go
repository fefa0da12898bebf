package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/event"
	"campusevents/internal/user"
)

// ListUsers returns the entire user directory (passwords never serialize).
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user.
func (h *Handler) GetUser(c *gin.Context) {
	usr, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// DeleteUser removes a user.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// FacultyEvents returns the events a faculty member organizes.
func (h *Handler) FacultyEvents(c *gin.Context) {
	events, err := h.events.ListByFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// StudentApplications returns a student's event applications.
func (h *Handler) StudentApplications(c *gin.Context) {
	apps, err := h.events.ListApplications(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if apps == nil {
		apps = []event.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

// DecideApplication lets an admin approve or reject a student's application.
// This path still writes the legacy "approved" value for compatibility.
func (h *Handler) DecideApplication(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != string(event.ApplicantApproved) && req.Status != string(event.ApplicantRejected) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	err := h.events.Decide(c.Request.Context(), c.Param("eventId"), c.Param("id"),
		claims.Subject, claims.Role, event.ApplicantStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application status updated successfully"})
}

// Analytics serves the aggregated dashboard counters.
func (h *Handler) Analytics(c *gin.Context) {
	snap, err := h.analytics.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type attendanceOverrideRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	EventID   string `json:"eventId" binding:"required"`
}

// OverrideAttendance force-creates an attendance record.
func (h *Handler) OverrideAttendance(c *gin.Context) {
	var req attendanceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.att.Override(c.Request.Context(), req.StudentID, req.EventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// RemoveAttendance deletes an attendance record.
func (h *Handler) RemoveAttendance(c *gin.Context) {
	var req attendanceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.att.Remove(c.Request.Context(), req.StudentID, req.EventID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance removed successfully"})
}
