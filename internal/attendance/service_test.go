package attendance

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
	"campusevents/internal/event"
)

// memEvents is an in-memory event.Repository for tests.
type memEvents struct {
	events map[string]event.Event
}

func newMemEvents() *memEvents {
	return &memEvents{events: make(map[string]event.Event)}
}

func (m *memEvents) Insert(ctx context.Context, evt event.Event) (event.Event, error) {
	m.events[evt.ID] = evt
	return evt, nil
}

func (m *memEvents) Get(ctx context.Context, id string) (event.Event, error) {
	evt, ok := m.events[id]
	if !ok {
		return event.Event{}, apperr.NotFound("event not found")
	}
	return evt, nil
}

func (m *memEvents) List(ctx context.Context) ([]event.Event, error)                  { return nil, nil }
func (m *memEvents) ListByFaculty(ctx context.Context, id string) ([]event.Event, error) { return nil, nil }

func (m *memEvents) Update(ctx context.Context, evt event.Event) error {
	m.events[evt.ID] = evt
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *memEvents) AddApplicant(ctx context.Context, eventID, studentID string) error {
	evt := m.events[eventID]
	evt.Applicants = append(evt.Applicants, event.Applicant{StudentID: studentID, Status: event.ApplicantPending})
	m.events[eventID] = evt
	return nil
}

func (m *memEvents) SetApplicantStatus(ctx context.Context, eventID, studentID string, status event.ApplicantStatus) error {
	evt := m.events[eventID]
	for i, a := range evt.Applicants {
		if a.StudentID == studentID {
			evt.Applicants[i].Status = status
		}
	}
	m.events[eventID] = evt
	return nil
}

func (m *memEvents) ListApplications(ctx context.Context, studentID string) ([]event.Application, error) {
	return nil, nil
}

func (m *memEvents) OpenAttendance(ctx context.Context, eventID, code string, anchor event.Coordinates, at time.Time) error {
	evt, ok := m.events[eventID]
	if !ok {
		return apperr.NotFound("event not found")
	}
	for i, a := range evt.Applicants {
		if a.Status == event.ApplicantApproved {
			evt.Applicants[i].Status = event.ApplicantAccepted
		}
	}
	evt.AttendanceCode = &code
	evt.Anchor = &anchor
	evt.CodeGeneratedAt = &at
	evt.Status = event.StatusAttendanceOpen
	m.events[eventID] = evt
	return nil
}

// memRecords is an in-memory attendance.Repository for tests.
type memRecords struct {
	records map[string]Record // key studentID+"/"+eventID
}

func newMemRecords() *memRecords {
	return &memRecords{records: make(map[string]Record)}
}

func (m *memRecords) Insert(ctx context.Context, rec Record) (bool, error) {
	key := rec.StudentID + "/" + rec.EventID
	if _, exists := m.records[key]; exists {
		return false, nil
	}
	m.records[key] = rec
	return true, nil
}

func (m *memRecords) Delete(ctx context.Context, studentID, eventID string) error {
	key := studentID + "/" + eventID
	if _, exists := m.records[key]; !exists {
		return apperr.NotFound("attendance record not found")
	}
	delete(m.records, key)
	return nil
}

func (m *memRecords) ListByStudent(ctx context.Context, studentID string) ([]StudentRecord, error) {
	var out []StudentRecord
	for _, rec := range m.records {
		if rec.StudentID == studentID {
			out = append(out, StudentRecord{Record: rec})
		}
	}
	return out, nil
}

func (m *memRecords) CountByEvent(ctx context.Context, eventID string) (int, error) {
	n := 0
	for _, rec := range m.records {
		if rec.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func setup(t *testing.T, codeTTL time.Duration) (*Service, *memEvents, *memRecords) {
	t.Helper()
	events := newMemEvents()
	records := newMemRecords()
	return NewService(events, records, codeTTL), events, records
}

func seedEvent(events *memEvents, applicants ...event.Applicant) event.Event {
	evt := event.Event{
		ID:         "evt-1",
		Name:       "Tech Symposium",
		FacultyID:  "faculty-1",
		Status:     event.StatusScheduled,
		Applicants: applicants,
	}
	events.events[evt.ID] = evt
	return evt
}

func TestNewCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		require.Regexp(t, pattern, code)
		assert.False(t, seen[code], "duplicate code %s after %d draws", code, i)
		seen[code] = true
	}
}

func TestGenerateCodeHappyPath(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events,
		event.Applicant{StudentID: "s1", Status: event.ApplicantApproved},
		event.Applicant{StudentID: "s2", Status: event.ApplicantPending},
	)

	code, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, code)

	evt := events.events["evt-1"]
	require.NotNil(t, evt.AttendanceCode)
	require.NotNil(t, evt.Anchor)
	assert.Equal(t, code, *evt.AttendanceCode)
	assert.Equal(t, 13.0827, evt.Anchor.Latitude)
	assert.Equal(t, 80.2707, evt.Anchor.Longitude)
	assert.Equal(t, event.StatusAttendanceOpen, evt.Status)

	// Legacy "approved" applicants get normalized; others stay untouched.
	assert.Equal(t, event.ApplicantAccepted, evt.Applicants[0].Status)
	assert.Equal(t, event.ApplicantPending, evt.Applicants[1].Status)
}

func TestGenerateCodeOwnershipGate(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	_, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-2", auth.RoleFaculty, 13.0827, 80.2707)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// The event must be untouched after a rejected attempt.
	evt := events.events["evt-1"]
	assert.Nil(t, evt.AttendanceCode)
	assert.Nil(t, evt.Anchor)
	assert.Equal(t, event.StatusScheduled, evt.Status)
}

func TestGenerateCodeRejectsNonFacultyRole(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	_, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleStudent, 13.0827, 80.2707)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestGenerateCodeValidatesCoordinates(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	for _, tc := range []struct{ lat, lon float64 }{
		{91, 80}, {-91, 80}, {13, 181}, {13, -181},
	} {
		_, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, tc.lat, tc.lon)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err), "lat=%v lon=%v", tc.lat, tc.lon)
	}
}

func TestGenerateCodeEventNotFound(t *testing.T) {
	svc, _, _ := setup(t, 0)

	_, err := svc.GenerateCode(context.Background(), "missing", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestVerifyProximityGate(t *testing.T) {
	svc, events, records := setup(t, 0)
	seedEvent(events)

	code, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	require.NoError(t, err)

	// ~250 m north of the anchor: rejected.
	_, err = svc.Verify(context.Background(), "evt-1", "student-1", code, 13.0827+0.00225, 80.2707)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	n, _ := records.CountByEvent(context.Background(), "evt-1")
	assert.Zero(t, n)

	// ~50 m north: accepted, exactly one record.
	res, err := svc.Verify(context.Background(), "evt-1", "student-1", code, 13.0827+0.00045, 80.2707)
	require.NoError(t, err)
	assert.False(t, res.AlreadyRecorded)
	assert.InDelta(t, 50, res.DistanceMeters, 5)
	n, _ = records.CountByEvent(context.Background(), "evt-1")
	assert.Equal(t, 1, n)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	code, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	require.NoError(t, err)

	// Case-sensitive exact match.
	wrong := "abcd1234"
	if wrong == code {
		wrong = "ABCD1234"
	}
	_, err = svc.Verify(context.Background(), "evt-1", "student-1", wrong, 13.0827, 80.2707)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.EqualError(t, err, "invalid attendance code")
}

func TestVerifyRejectsWhenNoCodeGenerated(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	_, err := svc.Verify(context.Background(), "evt-1", "student-1", "", 13.0827, 80.2707)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestVerifyRegenerationInvalidatesOldCode(t *testing.T) {
	svc, events, _ := setup(t, 0)
	seedEvent(events)

	oldCode, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	require.NoError(t, err)
	newCode, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 13.0827, 80.2707)
	require.NoError(t, err)
	require.NotEqual(t, oldCode, newCode)

	// Stale code fails even at the anchor itself.
	_, err = svc.Verify(context.Background(), "evt-1", "student-1", oldCode, 13.0827, 80.2707)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Verify(context.Background(), "evt-1", "student-1", newCode, 13.0827, 80.2707)
	assert.NoError(t, err)
}

func TestVerifyIdempotent(t *testing.T) {
	svc, events, records := setup(t, 0)
	seedEvent(events)

	code, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 12.9, 80.1)
	require.NoError(t, err)

	first, err := svc.Verify(context.Background(), "evt-1", "student-1", code, 12.9001, 80.1001)
	require.NoError(t, err)
	assert.False(t, first.AlreadyRecorded)

	second, err := svc.Verify(context.Background(), "evt-1", "student-1", code, 12.9001, 80.1001)
	require.NoError(t, err)
	assert.True(t, second.AlreadyRecorded)

	n, _ := records.CountByEvent(context.Background(), "evt-1")
	assert.Equal(t, 1, n)
}

func TestVerifyCodeExpiry(t *testing.T) {
	svc, events, _ := setup(t, 10*time.Minute)
	seedEvent(events)

	now := time.Now()
	svc.now = func() time.Time { return now }

	code, err := svc.GenerateCode(context.Background(), "evt-1", "faculty-1", auth.RoleFaculty, 12.9, 80.1)
	require.NoError(t, err)

	// Within the window: accepted.
	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	_, err = svc.Verify(context.Background(), "evt-1", "student-1", code, 12.9, 80.1)
	require.NoError(t, err)

	// Past the window: rejected.
	svc.now = func() time.Time { return now.Add(11 * time.Minute) }
	_, err = svc.Verify(context.Background(), "evt-1", "student-2", code, 12.9, 80.1)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.EqualError(t, err, "attendance code expired")
}

func TestVerifyEventNotFound(t *testing.T) {
	svc, _, _ := setup(t, 0)

	_, err := svc.Verify(context.Background(), "missing", "student-1", "ABCD1234", 12.9, 80.1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestOverrideAndRemove(t *testing.T) {
	svc, events, records := setup(t, 0)
	seedEvent(events)

	rec, err := svc.Override(context.Background(), "student-1", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", rec.StudentID)

	_, err = svc.Override(context.Background(), "student-1", "evt-1")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, svc.Remove(context.Background(), "student-1", "evt-1"))
	n, _ := records.CountByEvent(context.Background(), "evt-1")
	assert.Zero(t, n)

	err = svc.Remove(context.Background(), "student-1", "evt-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
