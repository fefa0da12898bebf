package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"campusevents/internal/apperr"
)

const pgUniqueViolation = "23505"

// PostgresRepository persists events in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, name, description, club, venue, event_date, start_time,
	COALESCE(image_url, ''), faculty_id, attendance_code, anchor_lat, anchor_lon,
	code_generated_at, status, created_at`

// Insert writes a new event.
func (r *PostgresRepository) Insert(ctx context.Context, evt Event) (Event, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Status == "" {
		evt.Status = StatusScheduled
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO events (id, name, description, club, venue, event_date, start_time, image_url, faculty_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),$9,$10)
		RETURNING created_at
	`, evt.ID, evt.Name, evt.Description, evt.Club, evt.Venue, evt.Date, evt.StartTime, evt.ImageURL, evt.FacultyID, evt.Status)
	if err := row.Scan(&evt.CreatedAt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Get returns a single event with its applicants.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	evt, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, apperr.NotFound("event not found")
		}
		return Event{}, err
	}

	applicants, err := r.applicants(ctx, id)
	if err != nil {
		return Event{}, err
	}
	evt.Applicants = applicants
	return evt, nil
}

// List returns all events, newest date first.
func (r *PostgresRepository) List(ctx context.Context) ([]Event, error) {
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date DESC`)
}

// ListByFaculty returns the events a faculty member created.
func (r *PostgresRepository) ListByFaculty(ctx context.Context, facultyID string) ([]Event, error) {
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE faculty_id = $1 ORDER BY event_date DESC`, facultyID)
}

// Update rewrites the mutable fields of an event.
func (r *PostgresRepository) Update(ctx context.Context, evt Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET name = $2, description = $3, club = $4, venue = $5, event_date = $6,
			start_time = $7, image_url = NULLIF($8, ''), status = $9
		WHERE id = $1
	`, evt.ID, evt.Name, evt.Description, evt.Club, evt.Venue, evt.Date, evt.StartTime, evt.ImageURL, evt.Status)
	if err != nil {
		return err
	}
	return requireRow(res, "event not found")
}

// Delete removes an event and, via cascade, its applicants and attendance.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "event not found")
}

// AddApplicant records a student's application exactly once.
func (r *PostgresRepository) AddApplicant(ctx context.Context, eventID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applicants (event_id, student_id, status)
		VALUES ($1, $2, $3)
	`, eventID, studentID, ApplicantPending)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict("already applied to this event")
	}
	return err
}

// SetApplicantStatus updates a single application.
func (r *PostgresRepository) SetApplicantStatus(ctx context.Context, eventID, studentID string, status ApplicantStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applicants SET status = $3 WHERE event_id = $1 AND student_id = $2
	`, eventID, studentID, status)
	if err != nil {
		return err
	}
	return requireRow(res, "event or applicant not found")
}

// ListApplications returns a student's applications with event summaries.
func (r *PostgresRepository) ListApplications(ctx context.Context, studentID string) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.event_date, e.start_time, e.venue, a.status
		FROM applicants a
		JOIN events e ON e.id = a.event_id
		WHERE a.student_id = $1
		ORDER BY e.event_date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.EventID, &app.EventName, &app.Date, &app.StartTime, &app.Venue, &app.Status); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// OpenAttendance applies the code-generation side effects transactionally.
func (r *PostgresRepository) OpenAttendance(ctx context.Context, eventID, code string, anchor Coordinates, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE applicants SET status = $3 WHERE event_id = $1 AND status = $2
	`, eventID, ApplicantApproved, ApplicantAccepted); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET attendance_code = $2, anchor_lat = $3, anchor_lon = $4, code_generated_at = $5, status = $6
		WHERE id = $1
	`, eventID, code, anchor.Latitude, anchor.Longitude, at, StatusAttendanceOpen)
	if err != nil {
		return err
	}
	if err := requireRow(res, "event not found"); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresRepository) applicants(ctx context.Context, eventID string) ([]Applicant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id, status, applied_at
		FROM applicants WHERE event_id = $1
		ORDER BY applied_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applicants []Applicant
	for rows.Next() {
		var a Applicant
		if err := rows.Scan(&a.StudentID, &a.Status, &a.AppliedAt); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

func (r *PostgresRepository) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var (
		evt         Event
		code        sql.NullString
		lat, lon    sql.NullFloat64
		generatedAt sql.NullTime
	)
	err := row.Scan(&evt.ID, &evt.Name, &evt.Description, &evt.Club, &evt.Venue,
		&evt.Date, &evt.StartTime, &evt.ImageURL, &evt.FacultyID,
		&code, &lat, &lon, &generatedAt, &evt.Status, &evt.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	if code.Valid {
		evt.AttendanceCode = &code.String
	}
	if lat.Valid && lon.Valid {
		evt.Anchor = &Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if generatedAt.Valid {
		t := generatedAt.Time
		evt.CodeGeneratedAt = &t
	}
	return evt, nil
}

func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(msg)
	}
	return nil
}
