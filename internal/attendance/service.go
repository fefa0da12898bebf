package attendance

import (
	"context"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
	"campusevents/internal/event"
	"campusevents/internal/geo"
)

// MaxDistanceMeters is the enforced check-in radius around the anchor point.
const MaxDistanceMeters = 200

// Service implements attendance code generation and proximity-gated check-in.
type Service struct {
	events  event.Repository
	records Repository
	codeTTL time.Duration
	now     func() time.Time
}

// NewService creates a service. codeTTL of 0 means codes never expire; a
// positive value rejects codes older than the window.
func NewService(events event.Repository, records Repository, codeTTL time.Duration) *Service {
	return &Service{
		events:  events,
		records: records,
		codeTTL: codeTTL,
		now:     time.Now,
	}
}

// GenerateCode issues a fresh single-use attendance code for an event and
// anchors it to the given coordinates. Each call overwrites the previous code,
// flips the event to Attendance Open, and normalizes legacy applicant
// statuses. Only the owning faculty member may generate.
func (s *Service) GenerateCode(ctx context.Context, eventID, requesterID, requesterRole string, lat, lon float64) (string, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return "", apperr.BadRequest("latitude and longitude are required and must be valid")
	}

	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", err
	}
	if requesterRole != auth.RoleFaculty || evt.FacultyID != requesterID {
		return "", apperr.Forbidden("you are not authorized to generate an attendance code for this event")
	}

	code, err := NewCode()
	if err != nil {
		return "", err
	}

	anchor := event.Coordinates{Latitude: lat, Longitude: lon}
	if err := s.events.OpenAttendance(ctx, eventID, code, anchor, s.now()); err != nil {
		return "", err
	}

	codesGenerated.Inc()
	return code, nil
}

// VerifyResult reports a successful check-in.
type VerifyResult struct {
	Record          Record
	DistanceMeters  float64
	AlreadyRecorded bool
}

// Verify checks a student's submitted code and location against the event's
// current code and anchor, and records attendance at most once per student
// per event. A repeat check-in succeeds without creating a second record.
func (s *Service) Verify(ctx context.Context, eventID, studentID, code string, lat, lon float64) (VerifyResult, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		if apperr.IsNotFound(err) {
			verifications.WithLabelValues(outcomeNotFound).Inc()
		}
		return VerifyResult{}, err
	}

	// Exact, case-sensitive match against the current code; regeneration
	// naturally invalidates any previously issued code.
	if evt.AttendanceCode == nil || evt.Anchor == nil || code == "" || *evt.AttendanceCode != code {
		verifications.WithLabelValues(outcomeBadCode).Inc()
		return VerifyResult{}, apperr.BadRequest("invalid attendance code")
	}

	if s.codeTTL > 0 && evt.CodeGeneratedAt != nil && s.now().Sub(*evt.CodeGeneratedAt) > s.codeTTL {
		verifications.WithLabelValues(outcomeExpired).Inc()
		return VerifyResult{}, apperr.BadRequest("attendance code expired")
	}

	if !geo.ValidCoordinates(lat, lon) {
		verifications.WithLabelValues(outcomeOutOfRange).Inc()
		return VerifyResult{}, apperr.BadRequest("latitude and longitude are required and must be valid")
	}

	distance := geo.DistanceMeters(evt.Anchor.Latitude, evt.Anchor.Longitude, lat, lon)
	if distance > MaxDistanceMeters {
		verifications.WithLabelValues(outcomeOutOfRange).Inc()
		return VerifyResult{}, apperr.BadRequest("you are not within the allowed proximity to mark attendance")
	}

	rec := Record{StudentID: studentID, EventID: eventID, RecordedAt: s.now()}
	created, err := s.records.Insert(ctx, rec)
	if err != nil {
		verifications.WithLabelValues(outcomeServerError).Inc()
		return VerifyResult{}, err
	}
	if created {
		verifications.WithLabelValues(outcomeRecorded).Inc()
	} else {
		verifications.WithLabelValues(outcomeDuplicate).Inc()
	}

	return VerifyResult{Record: rec, DistanceMeters: distance, AlreadyRecorded: !created}, nil
}

// ListForStudent returns a student's attendance history, newest first.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]StudentRecord, error) {
	return s.records.ListByStudent(ctx, studentID)
}

// Override force-creates an attendance record, bypassing code and proximity
// checks. Reachable only through admin-gated endpoints.
func (s *Service) Override(ctx context.Context, studentID, eventID string) (Record, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return Record{}, err
	}
	rec := Record{StudentID: studentID, EventID: eventID, RecordedAt: s.now()}
	created, err := s.records.Insert(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if !created {
		return Record{}, apperr.Conflict("attendance already recorded")
	}
	return rec, nil
}

// Remove deletes an attendance record. Admin override only.
func (s *Service) Remove(ctx context.Context, studentID, eventID string) error {
	return s.records.Delete(ctx, studentID, eventID)
}

// CountForEvent returns the number of attendance records for an event.
func (s *Service) CountForEvent(ctx context.Context, eventID string) (int, error) {
	return s.records.CountByEvent(ctx, eventID)
}
