package event

import (
	"context"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
)

// Service coordinates event CRUD and applicant decisions.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields a faculty member supplies for a new event.
type CreateInput struct {
	Name        string
	Description string
	Club        string
	Venue       string
	Date        time.Time
	StartTime   string
	ImageURL    string
}

// Create registers a new event owned by facultyID.
func (s *Service) Create(ctx context.Context, facultyID string, in CreateInput) (Event, error) {
	if in.Name == "" || in.Description == "" || in.Club == "" || in.Venue == "" || in.StartTime == "" || in.Date.IsZero() {
		return Event{}, apperr.BadRequest("all fields are required")
	}
	return s.repo.Insert(ctx, Event{
		Name:        in.Name,
		Description: in.Description,
		Club:        in.Club,
		Venue:       in.Venue,
		Date:        in.Date,
		StartTime:   in.StartTime,
		ImageURL:    in.ImageURL,
		FacultyID:   facultyID,
		Status:      StatusScheduled,
	})
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	return s.repo.Get(ctx, id)
}

// List returns all events.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// ListByFaculty returns the events a faculty member organizes.
func (s *Service) ListByFaculty(ctx context.Context, facultyID string) ([]Event, error) {
	return s.repo.ListByFaculty(ctx, facultyID)
}

// UpdateInput carries a partial update; empty fields keep current values.
type UpdateInput struct {
	Name        string
	Description string
	Club        string
	Venue       string
	Date        time.Time
	StartTime   string
	ImageURL    string
	Status      Status
}

// Update modifies an event. Only the owning faculty or an admin may update;
// status may be set directly here, so the lifecycle machine stays advisory.
func (s *Service) Update(ctx context.Context, id, requesterID, requesterRole string, in UpdateInput) (Event, error) {
	evt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if requesterRole != auth.RoleAdmin && evt.FacultyID != requesterID {
		return Event{}, apperr.Forbidden("you are not authorized to update this event")
	}

	if in.Name != "" {
		evt.Name = in.Name
	}
	if in.Description != "" {
		evt.Description = in.Description
	}
	if in.Club != "" {
		evt.Club = in.Club
	}
	if in.Venue != "" {
		evt.Venue = in.Venue
	}
	if !in.Date.IsZero() {
		evt.Date = in.Date
	}
	if in.StartTime != "" {
		evt.StartTime = in.StartTime
	}
	if in.ImageURL != "" {
		evt.ImageURL = in.ImageURL
	}
	if in.Status != "" {
		switch in.Status {
		case StatusScheduled, StatusAttendanceOpen, StatusAttendanceClosed:
			evt.Status = in.Status
		default:
			return Event{}, apperr.BadRequest("invalid event status")
		}
	}

	if err := s.repo.Update(ctx, evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Delete removes an event. Only the owning faculty or an admin may delete.
func (s *Service) Delete(ctx context.Context, id, requesterID, requesterRole string) error {
	evt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if requesterRole != auth.RoleAdmin && evt.FacultyID != requesterID {
		return apperr.Forbidden("you are not authorized to delete this event")
	}
	return s.repo.Delete(ctx, id)
}

// Apply records a student's application to an event.
func (s *Service) Apply(ctx context.Context, eventID, studentID string) error {
	if _, err := s.repo.Get(ctx, eventID); err != nil {
		return err
	}
	return s.repo.AddApplicant(ctx, eventID, studentID)
}

// Decide sets an applicant's status. Only the owning faculty or an admin may
// decide; the admin override path may still write the legacy "approved".
func (s *Service) Decide(ctx context.Context, eventID, studentID, requesterID, requesterRole string, status ApplicantStatus) error {
	if !ValidDecision(status) {
		return apperr.BadRequest("invalid status")
	}
	evt, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if requesterRole != auth.RoleAdmin && evt.FacultyID != requesterID {
		return apperr.Forbidden("you are not authorized to decide applicants for this event")
	}
	return s.repo.SetApplicantStatus(ctx, eventID, studentID, status)
}

// ListApplications returns a student's applications.
func (s *Service) ListApplications(ctx context.Context, studentID string) ([]Application, error) {
	return s.repo.ListApplications(ctx, studentID)
}
