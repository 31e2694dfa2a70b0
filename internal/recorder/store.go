package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
)

// Driver selects the SQL backend of a Store.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS answer_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    module TEXT NOT NULL,
    question INTEGER NOT NULL,
    attempt INTEGER NOT NULL,
    submitted_option TEXT NOT NULL,
    correct BOOLEAN NOT NULL,
    recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_summaries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    mode TEXT NOT NULL,
    modules TEXT NOT NULL,
    started_at TEXT NOT NULL,
    ended_at TEXT NOT NULL,
    report TEXT NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS answer_events (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    module TEXT NOT NULL,
    question INTEGER NOT NULL,
    attempt INTEGER NOT NULL,
    submitted_option TEXT NOT NULL,
    correct BOOLEAN NOT NULL,
    recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_summaries (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL,
    mode TEXT NOT NULL,
    modules TEXT NOT NULL,
    started_at TEXT NOT NULL,
    ended_at TEXT NOT NULL,
    report TEXT NOT NULL
);
`

// Store persists recorder events to a relational database. It implements
// session.Recorder as a best-effort sink: write failures are logged and
// never surfaced back to the session.
type Store struct {
	db     *sql.DB
	driver Driver
	logger *slog.Logger
}

// Open connects to dsn and ensures the schema exists. DSNs beginning with
// postgres:// or postgresql:// use the pgx driver; anything else is
// treated as a sqlite path (":memory:" included).
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	driver, driverName := DriverSQLite, "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, driverName = DriverPostgres, "pgx"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, driver: driver, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// bind rewrites ? placeholders to $n for the postgres driver.
func (s *Store) bind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RecordAnswer implements session.Recorder.
func (s *Store) RecordAnswer(ev session.AnswerEvent) {
	_, err := s.db.Exec(s.bind(`INSERT INTO answer_events
		(session_id, kind, module, question, attempt, submitted_option, correct, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		ev.SessionID, string(ev.Kind), ev.Module, ev.Question, ev.AttemptIndex,
		ev.SubmittedOption, ev.Correct, ev.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		s.logger.Error("failed to record answer event",
			"session_id", ev.SessionID,
			"module", ev.Module,
			"question", ev.Question,
			"error", err,
		)
	}
}

// RecordSummary implements session.Recorder. The mode-specific report is
// stored as JSON.
func (s *Store) RecordSummary(ev session.SummaryEvent) {
	report, err := json.Marshal(ev.Report)
	if err != nil {
		s.logger.Error("failed to encode session report", "session_id", ev.SessionID, "error", err)
		return
	}
	modules, err := json.Marshal(ev.Modules)
	if err != nil {
		s.logger.Error("failed to encode module list", "session_id", ev.SessionID, "error", err)
		return
	}

	_, err = s.db.Exec(s.bind(`INSERT INTO session_summaries
		(session_id, mode, modules, started_at, ended_at, report)
		VALUES (?, ?, ?, ?, ?, ?)`),
		ev.SessionID, string(ev.Mode), string(modules),
		ev.StartedAt.UTC().Format(time.RFC3339Nano),
		ev.EndedAt.UTC().Format(time.RFC3339Nano),
		string(report))
	if err != nil {
		s.logger.Error("failed to record session summary", "session_id", ev.SessionID, "error", err)
	}
}

// SessionEvents returns a session's answer events in the order they were
// recorded.
func (s *Store) SessionEvents(sessionID string) ([]session.AnswerEvent, error) {
	rows, err := s.db.Query(s.bind(`SELECT kind, module, question, attempt, submitted_option, correct, recorded_at
		FROM answer_events WHERE session_id = ? ORDER BY id`), sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []session.AnswerEvent
	for rows.Next() {
		ev := session.AnswerEvent{SessionID: sessionID}
		var kind, recordedAt string
		if err := rows.Scan(&kind, &ev.Module, &ev.Question, &ev.AttemptIndex,
			&ev.SubmittedOption, &ev.Correct, &recordedAt); err != nil {
			return nil, err
		}
		ev.Kind = session.EventKind(kind)
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SummaryRecord is a persisted session summary as read back from the
// store; the report is kept as raw JSON.
type SummaryRecord struct {
	SessionID string
	Mode      session.Mode
	Modules   []string
	StartedAt time.Time
	EndedAt   time.Time
	Report    json.RawMessage
}

// SessionSummary returns the persisted summary for a session, or
// sql.ErrNoRows if none was recorded.
func (s *Store) SessionSummary(sessionID string) (*SummaryRecord, error) {
	row := s.db.QueryRow(s.bind(`SELECT mode, modules, started_at, ended_at, report
		FROM session_summaries WHERE session_id = ? ORDER BY id DESC LIMIT 1`), sessionID)

	rec := &SummaryRecord{SessionID: sessionID}
	var mode, modules, startedAt, endedAt, report string
	if err := row.Scan(&mode, &modules, &startedAt, &endedAt, &report); err != nil {
		return nil, err
	}
	rec.Mode = session.Mode(mode)
	if err := json.Unmarshal([]byte(modules), &rec.Modules); err != nil {
		return nil, err
	}
	var err error
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, err
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return nil, err
	}
	rec.Report = json.RawMessage(report)
	return rec, nil
}

// ModuleAccuracy returns how many graded answers were recorded for a
// module across all sessions, and how many of them were correct. Skips
// and reveals are not graded answers and are excluded.
func (s *Store) ModuleAccuracy(module string) (total, correct int, err error) {
	row := s.db.QueryRow(s.bind(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0)
		FROM answer_events WHERE module = ? AND kind = 'answer'`), module)
	err = row.Scan(&total, &correct)
	return total, correct, err
}

// QuestionAccuracy is ModuleAccuracy narrowed to a single question.
func (s *Store) QuestionAccuracy(module string, question int) (total, correct int, err error) {
	row := s.db.QueryRow(s.bind(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0)
		FROM answer_events WHERE module = ? AND question = ? AND kind = 'answer'`), module, question)
	err = row.Scan(&total, &correct)
	return total, correct, err
}
