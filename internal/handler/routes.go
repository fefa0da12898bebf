package handler

import (
	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
)

// Routes registers the API surface under /v1.
func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)

	v1 := r.Group("/v1", auth.RequireAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))

	v1.GET("/events", h.ListEvents)
	v1.GET("/events/:id", h.GetEvent)

	faculty := v1.Group("", auth.RequireRole(auth.RoleFaculty))
	faculty.POST("/events", h.CreateEvent)
	faculty.POST("/events/:id/generate-attendance", h.GenerateAttendance)
	faculty.POST("/uploads", h.UploadImage)

	facultyOrAdmin := v1.Group("", auth.RequireRole(auth.RoleFaculty, auth.RoleAdmin))
	facultyOrAdmin.PUT("/events/:id", h.UpdateEvent)
	facultyOrAdmin.DELETE("/events/:id", h.DeleteEvent)
	facultyOrAdmin.GET("/events/:id/applicants", h.ListApplicants)
	facultyOrAdmin.PUT("/events/:id/applicants/:studentId", h.DecideApplicant)

	student := v1.Group("", auth.RequireRole(auth.RoleStudent))
	student.POST("/events/:id/apply", h.ApplyToEvent)
	student.POST("/events/:id/verify-attendance", h.VerifyAttendance)
	student.GET("/attendance", h.MyAttendance)
	student.GET("/applications", h.MyApplications)

	adminGroup := v1.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	adminGroup.GET("/users", h.ListUsers)
	adminGroup.GET("/users/:id", h.GetUser)
	adminGroup.DELETE("/users/:id", h.DeleteUser)
	adminGroup.GET("/users/:id/events", h.FacultyEvents)
	adminGroup.GET("/users/:id/event-requests", h.StudentApplications)
	adminGroup.PUT("/users/:id/event-requests/:eventId", h.DecideApplication)
	adminGroup.GET("/analytics", h.Analytics)
	adminGroup.POST("/attendance", h.OverrideAttendance)
	adminGroup.DELETE("/attendance", h.RemoveAttendance)
}
