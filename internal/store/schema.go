package store

import "context"

// schema is the DDL applied on startup. Statements are idempotent so repeated
// boots against the same database are safe.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	register_number TEXT,
	branch TEXT,
	department TEXT,
	year TEXT,
	section TEXT,
	mobile_number TEXT,
	designation TEXT,
	office_room TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token TEXT PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL,
	revoked BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	club TEXT NOT NULL,
	venue TEXT NOT NULL,
	event_date TIMESTAMPTZ NOT NULL,
	start_time TEXT NOT NULL,
	image_url TEXT,
	faculty_id UUID NOT NULL REFERENCES users(id),
	attendance_code TEXT,
	anchor_lat DOUBLE PRECISION,
	anchor_lon DOUBLE PRECISION,
	code_generated_at TIMESTAMPTZ,
	status TEXT NOT NULL DEFAULT 'Scheduled',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS applicants (
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL DEFAULT 'pending',
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (event_id, student_id)
);

CREATE TABLE IF NOT EXISTS attendance (
	id UUID PRIMARY KEY,
	student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (student_id, event_id)
);
`

// EnsureSchema creates missing tables. The attendance table carries the
// (student_id, event_id) unique constraint that makes check-in idempotent.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.Client.ExecContext(ctx, schema)
	return err
}
