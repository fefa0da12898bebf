package event

import "time"

// Status is the advisory event lifecycle state. Attendance Open is entered
// when a code is generated; closing it back is an explicit faculty/admin
// action, never automatic.
type Status string

const (
	StatusScheduled        Status = "Scheduled"
	StatusAttendanceOpen   Status = "Attendance Open"
	StatusAttendanceClosed Status = "Attendance Closed"
)

// ApplicantStatus tracks a student's application to an event. "approved" is a
// legacy alias of "accepted" still produced by the admin override path; code
// generation normalizes it away.
type ApplicantStatus string

const (
	ApplicantPending  ApplicantStatus = "pending"
	ApplicantAccepted ApplicantStatus = "accepted"
	ApplicantRejected ApplicantStatus = "rejected"
	ApplicantApproved ApplicantStatus = "approved"
)

// ValidDecision reports whether s is an allowed applicant decision.
func ValidDecision(s ApplicantStatus) bool {
	switch s {
	case ApplicantAccepted, ApplicantRejected, ApplicantApproved:
		return true
	}
	return false
}

// Coordinates is a geographic point in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Applicant is a student's application embedded in an event.
type Applicant struct {
	StudentID string          `json:"studentId"`
	Status    ApplicantStatus `json:"status"`
	AppliedAt time.Time       `json:"appliedAt"`
}

// Event is a college event owned by the faculty member who created it.
// AttendanceCode and Anchor are set together by code generation and are
// otherwise both nil.
type Event struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Club            string       `json:"club"`
	Venue           string       `json:"venue"`
	Date            time.Time    `json:"date"`
	StartTime       string       `json:"time"`
	ImageURL        string       `json:"image,omitempty"`
	FacultyID       string       `json:"facultyId"`
	Applicants      []Applicant  `json:"applicants,omitempty"`
	AttendanceCode  *string      `json:"-"`
	Anchor          *Coordinates `json:"-"`
	CodeGeneratedAt *time.Time   `json:"-"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Application is a student's view of one of their event applications.
type Application struct {
	EventID   string          `json:"eventId"`
	EventName string          `json:"eventName"`
	Date      time.Time       `json:"date"`
	StartTime string          `json:"time"`
	Venue     string          `json:"venue"`
	Status    ApplicantStatus `json:"status"`
}
