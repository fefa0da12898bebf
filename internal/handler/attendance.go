package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/queue"
)

type generateAttendanceRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// GenerateAttendance issues a fresh attendance code anchored at the faculty
// member's current location and opens the event for check-in.
func (h *Handler) GenerateAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req generateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	code, err := h.att.GenerateCode(c.Request.Context(), c.Param("id"), claims.Subject, claims.Role, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendanceCode": code})
}

type verifyAttendanceRequest struct {
	AttendanceCode string   `json:"attendanceCode" binding:"required"`
	Latitude       *float64 `json:"latitude" binding:"required"`
	Longitude      *float64 `json:"longitude" binding:"required"`
}

// attendanceRecorded is the queue payload published after a check-in.
type attendanceRecorded struct {
	EventID   string `json:"eventId"`
	StudentID string `json:"studentId"`
}

// VerifyAttendance checks the submitted code and location and records the
// calling student's attendance.
func (h *Handler) VerifyAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)

	var req verifyAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.att.Verify(c.Request.Context(), c.Param("id"), claims.Subject, req.AttendanceCode, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	if !res.AlreadyRecorded && h.q != nil {
		body, _ := json.Marshal(attendanceRecorded{EventID: res.Record.EventID, StudentID: res.Record.StudentID})
		if err := h.q.Publish(context.WithoutCancel(c.Request.Context()), queue.Message{Type: "attendance", Body: body}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance recorded successfully"})
}

// MyAttendance returns the calling student's attendance records.
func (h *Handler) MyAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	records, err := h.att.ListForStudent(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []attendance.StudentRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// MyApplications returns the calling student's event applications.
func (h *Handler) MyApplications(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	apps, err := h.events.ListApplications(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
