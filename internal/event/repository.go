package event

import (
	"context"
	"time"
)

// Repository is the persistence contract for events and their applicants.
type Repository interface {
	Insert(ctx context.Context, evt Event) (Event, error)
	// Get returns apperr.NotFound when no event exists with the id.
	Get(ctx context.Context, id string) (Event, error)
	List(ctx context.Context) ([]Event, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]Event, error)
	Update(ctx context.Context, evt Event) error
	Delete(ctx context.Context, id string) error

	// AddApplicant returns apperr.Conflict when the student already applied.
	AddApplicant(ctx context.Context, eventID, studentID string) error
	// SetApplicantStatus returns apperr.NotFound when no such application exists.
	SetApplicantStatus(ctx context.Context, eventID, studentID string, status ApplicantStatus) error
	ListApplications(ctx context.Context, studentID string) ([]Application, error)

	// OpenAttendance normalizes legacy "approved" applicant statuses to
	// "accepted", then sets the attendance code, anchor coordinates,
	// generation time and Attendance Open status in one transaction.
	OpenAttendance(ctx context.Context, eventID, code string, anchor Coordinates, at time.Time) error
}
