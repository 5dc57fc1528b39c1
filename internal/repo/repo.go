package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"sessionhub/internal/codes"
	"sessionhub/internal/lookup"
	"sessionhub/internal/model"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFull        = errors.New("session is full")
	ErrAttendanceNotFound = errors.New("attendance not found")
)

type Repository interface {
	CreateSession(ctx context.Context, s *model.Session) (int64, error)
	ResolveSession(ctx context.Context, l lookup.Lookup) (*model.Session, error)
	ListPublicSessions(ctx context.Context) ([]model.Session, error)
	UpdateSessionTx(ctx context.Context, id int64, patch model.SessionPatch) (*model.Session, error)
	DeleteSessionTx(ctx context.Context, id int64) error
	JoinSessionTx(ctx context.Context, a *model.Attendance) (int64, error)
	DeleteAttendance(ctx context.Context, sessionID int64, attendanceCode string) error
	CountAttendance(ctx context.Context, sessionID int64) (int, error)
	ListAttendance(ctx context.Context, sessionID int64) ([]model.Attendance, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

const sessionColumns = `id, title, description, start_time, max_participants, type,
       management_code, private_code, creator_email, location, latitude, longitude,
       created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	if err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.StartTime, &s.MaxParticipants, &s.Type,
		&s.ManagementCode, &s.PrivateCode, &s.CreatorEmail, &s.Location, &s.Latitude, &s.Longitude,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CreateSession(ctx context.Context, s *model.Session) (int64, error) {
	query := `
		INSERT INTO sessions (title, description, start_time, max_participants, type,
		                      management_code, private_code, creator_email, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		s.Title, s.Description, s.StartTime, s.MaxParticipants, s.Type,
		s.ManagementCode, s.PrivateCode, s.CreatorEmail, s.Location, s.Latitude, s.Longitude,
	)

	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return s.ID, nil
}

// ResolveSession maps an id-or-code lookup to the session row. The
// caller never needs to know which branch matched.
func (r *repository) ResolveSession(ctx context.Context, l lookup.Lookup) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	arg := any(l.ID)
	if !l.ByID() {
		query = `SELECT ` + sessionColumns + ` FROM sessions WHERE private_code = $1`
		arg = l.Code
	}

	s, err := scanSession(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return s, nil
}

func (r *repository) ListPublicSessions(ctx context.Context) ([]model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE type = 'public'
		ORDER BY start_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

// UpdateSessionTx merges the patch against the stored row inside one
// transaction so concurrent updates cannot interleave partial merges.
// Switching type to private mints a private code when the row has
// none; switching to public clears it.
func (r *repository) UpdateSessionTx(ctx context.Context, id int64, patch model.SessionPatch) (*model.Session, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id)
	s, err := scanSession(row)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to select session for update: %w", err)
	}

	patch.Apply(s)

	switch {
	case s.Type == model.TypePrivate && s.PrivateCode == nil:
		code, err := codes.NewPrivateCode()
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to generate private code: %w", err)
		}
		s.PrivateCode = &code
	case s.Type == model.TypePublic:
		s.PrivateCode = nil
	}

	query := `
		UPDATE sessions
		SET title = $1, description = $2, start_time = $3, max_participants = $4,
		    type = $5, private_code = $6, location = $7, latitude = $8, longitude = $9,
		    updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`
	if err := tx.QueryRowContext(ctx, query,
		s.Title, s.Description, s.StartTime, s.MaxParticipants,
		s.Type, s.PrivateCode, s.Location, s.Latitude, s.Longitude, s.ID,
	).Scan(&s.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s, nil
}

// DeleteSessionTx removes the session and all of its attendance rows.
// The schema cascades as well; deleting explicitly keeps the cleanup
// visible and works on schemas restored without the constraint.
func (r *repository) DeleteSessionTx(ctx context.Context, id int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attendance WHERE session_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		_ = tx.Rollback()
		return ErrSessionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// JoinSessionTx performs the capacity check and the insert in one
// transaction holding a row lock on the session, so concurrent joins
// near the cap cannot overshoot it.
func (r *repository) JoinSessionTx(ctx context.Context, a *model.Attendance) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var maxParticipants *int
	err = tx.QueryRowContext(ctx, `
		SELECT max_participants
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`, a.SessionID).Scan(&maxParticipants)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to select session for join: %w", err)
	}

	if maxParticipants != nil && *maxParticipants > 0 {
		var count int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM attendance
			WHERE session_id = $1
		`, a.SessionID).Scan(&count)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to count attendance: %w", err)
		}
		if count >= *maxParticipants {
			_ = tx.Rollback()
			return 0, ErrSessionFull
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO attendance (session_id, attendee_name, attendee_email, attendee_phone, attendance_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.SessionID, a.AttendeeName, a.AttendeeEmail, a.AttendeePhone, a.AttendanceCode).Scan(&id, &a.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to create attendance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	a.ID = id
	return id, nil
}

// DeleteAttendance removes the row matching both the session and the
// attendance code. Zero rows affected means the code was wrong.
func (r *repository) DeleteAttendance(ctx context.Context, sessionID int64, attendanceCode string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM attendance
		WHERE session_id = $1 AND attendance_code = $2
	`, sessionID, attendanceCode)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

func (r *repository) CountAttendance(ctx context.Context, sessionID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM attendance
		WHERE session_id = $1
	`, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	return count, nil
}

func (r *repository) ListAttendance(ctx context.Context, sessionID int64) ([]model.Attendance, error) {
	query := `
		SELECT id, session_id, attendee_name, attendee_email, attendee_phone, attendance_code, created_at
		FROM attendance
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(
			&a.ID,
			&a.SessionID,
			&a.AttendeeName,
			&a.AttendeeEmail,
			&a.AttendeePhone,
			&a.AttendanceCode,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendees = append(attendees, a)
	}

	return attendees, rows.Err()
}
