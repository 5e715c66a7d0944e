package relayserver

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"cardlink/internal/domain"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a session id twice.
	ErrSessionExists = errors.New("session already exists")
	// ErrAlreadyLinked is returned when a second handheld links a session.
	ErrAlreadyLinked = errors.New("session already linked")
	// ErrNotLinked is returned when relaying to a session nobody linked.
	ErrNotLinked = errors.New("session not linked")
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	status         TEXT NOT NULL,
	app_identifier TEXT NOT NULL DEFAULT '',
	payload_type   TEXT NOT NULL DEFAULT '',
	payload        BLOB,
	created_utc    INTEGER NOT NULL,
	updated_utc    INTEGER NOT NULL
)`

// SQLiteStore keeps relay sessions in SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite creates or opens the database at path and ensures the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create db directory")
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1) // SQLite handles one writer at a time; also pins :memory:

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) CreateSession(ctx context.Context, id domain.SessionID) (domain.SessionRecord, error) {
	ts := s.now().UTC().Unix()
	rec := domain.SessionRecord{ID: id, Status: domain.RemotePending, CreatedUTC: ts, UpdatedUTC: ts}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, status, created_utc, updated_utc) VALUES (?, ?, ?, ?)`,
		string(id), string(rec.Status), ts, ts)
	if err != nil {
		return domain.SessionRecord{}, errors.Wrap(err, "insert session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.SessionRecord{}, errors.Wrap(ErrSessionExists, string(id))
	}
	return rec, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id domain.SessionID) (domain.SessionRecord, error) {
	return getSession(ctx, s.db, id)
}

// MarkLinked moves a pending session to linked.
func (s *SQLiteStore) MarkLinked(ctx context.Context, id domain.SessionID, appIdentifier string) error {
	return s.update(ctx, id, func(rec domain.SessionRecord) (string, []any, error) {
		if rec.Status != domain.RemotePending {
			return "", nil, errors.Wrap(ErrAlreadyLinked, string(id))
		}
		return `UPDATE sessions SET status = ?, app_identifier = ?, updated_utc = ? WHERE id = ?`,
			[]any{string(domain.RemoteLinked), appIdentifier}, nil
	})
}

// SaveRelay stores a sealed payload on a linked session. A later relay
// replaces the earlier payload.
func (s *SQLiteStore) SaveRelay(ctx context.Context, id domain.SessionID, kind domain.PayloadKind, sealed []byte) error {
	return s.update(ctx, id, func(rec domain.SessionRecord) (string, []any, error) {
		if rec.Status == domain.RemotePending {
			return "", nil, errors.Wrap(ErrNotLinked, string(id))
		}
		return `UPDATE sessions SET status = ?, payload_type = ?, payload = ?, updated_utc = ? WHERE id = ?`,
			[]any{string(domain.RemoteRelayed), string(kind), sealed}, nil
	})
}

// update runs a guarded read-modify-write in one transaction. guard returns
// the statement and its leading arguments; updated_utc and id are appended.
func (s *SQLiteStore) update(
	ctx context.Context,
	id domain.SessionID,
	guard func(domain.SessionRecord) (string, []any, error),
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := getSession(ctx, tx, id)
	if err != nil {
		return err
	}
	stmt, args, err := guard(rec)
	if err != nil {
		return err
	}
	args = append(args, s.now().UTC().Unix(), string(id))
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "update session")
	}
	return errors.Wrap(tx.Commit(), "commit")
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSession(ctx context.Context, q queryer, id domain.SessionID) (domain.SessionRecord, error) {
	var (
		rec    domain.SessionRecord
		rawID  string
		status string
		kind   string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, status, app_identifier, payload_type, payload, created_utc, updated_utc
		 FROM sessions WHERE id = ?`, string(id)).
		Scan(&rawID, &status, &rec.AppIdentifier, &kind, &rec.SealedPayload, &rec.CreatedUTC, &rec.UpdatedUTC)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionRecord{}, errors.Wrap(ErrSessionNotFound, string(id))
	}
	if err != nil {
		return domain.SessionRecord{}, errors.Wrap(err, "select session")
	}
	rec.ID = domain.SessionID(rawID)
	rec.Status = domain.RemoteStatus(status)
	rec.Type = domain.PayloadKind(kind)
	return rec, nil
}

// Compile-time assertion that SQLiteStore implements domain.SessionRepository.
var _ domain.SessionRepository = (*SQLiteStore)(nil)
