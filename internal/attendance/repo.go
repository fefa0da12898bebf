package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/apperr"
)

// Record is a durable attendance fact: one per student per event.
type Record struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"studentId"`
	EventID    string    `json:"eventId"`
	RecordedAt time.Time `json:"timestamp"`
}

// StudentRecord is a record joined with its event summary for listings.
type StudentRecord struct {
	Record
	EventName   string    `json:"eventName"`
	EventDate   time.Time `json:"eventDate"`
	Venue       string    `json:"venue"`
	FacultyName string    `json:"facultyName"`
}

// Repository is the persistence contract for attendance records.
type Repository interface {
	// Insert writes a record unless one already exists for the same student
	// and event; created is false for the duplicate case.
	Insert(ctx context.Context, rec Record) (created bool, err error)
	// Delete returns apperr.NotFound when no record matches.
	Delete(ctx context.Context, studentID, eventID string) error
	ListByStudent(ctx context.Context, studentID string) ([]StudentRecord, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// PostgresRepository persists attendance records in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a record; the unique (student_id, event_id) index collapses
// concurrent check-ins into a single row.
func (r *PostgresRepository) Insert(ctx context.Context, rec Record) (bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, event_id, recorded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, event_id) DO NOTHING
	`, rec.ID, rec.StudentID, rec.EventID, rec.RecordedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a record.
func (r *PostgresRepository) Delete(ctx context.Context, studentID, eventID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM attendance WHERE student_id = $1 AND event_id = $2
	`, studentID, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("attendance record not found")
	}
	return nil
}

// ListByStudent returns a student's records with event summaries, newest first.
func (r *PostgresRepository) ListByStudent(ctx context.Context, studentID string) ([]StudentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.student_id, a.event_id, a.recorded_at,
			e.name, e.event_date, e.venue, u.name
		FROM attendance a
		JOIN events e ON e.id = a.event_id
		JOIN users u ON u.id = e.faculty_id
		WHERE a.student_id = $1
		ORDER BY a.recorded_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StudentRecord
	for rows.Next() {
		var rec StudentRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.EventID, &rec.RecordedAt,
			&rec.EventName, &rec.EventDate, &rec.Venue, &rec.FacultyName); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByEvent returns the number of records for an event.
func (r *PostgresRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}
