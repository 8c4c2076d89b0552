// Package history provides a SQLite archive of past conversation messages
// that hosts page through when the timeline asks for older history.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tOgg1/chatline/internal/models"
)

// MemoryPath keeps the archive in process memory.
const MemoryPath = ":memory:"

// Archive errors.
var (
	ErrArchiveClosed  = errors.New("archive unavailable")
	ErrCursorNotFound = errors.New("cursor message not found")
	ErrInvalidLimit   = errors.New("limit must be positive")
)

// Archive stores messages in insertion order. Insertion order is the
// conversation order: the first inserted message is the oldest.
type Archive struct {
	db *sql.DB
}

// Page is one slice of older history, ordered oldest first.
type Page struct {
	Messages []models.Message
	// HasMore reports whether messages older than Messages[0] remain.
	HasMore bool
}

// Oldest returns the id of the first message in the page, or "".
func (p Page) Oldest() string {
	if len(p.Messages) == 0 {
		return ""
	}
	return p.Messages[0].ID
}

// Open opens or creates an archive at path. An empty path or MemoryPath
// keeps the archive in memory.
func Open(path string) (*Archive, error) {
	path = strings.TrimSpace(path)
	var dsn string
	if path == "" || path == MemoryPath {
		dsn = MemoryPath
	} else {
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history archive: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *Archive) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS archived_messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			sender TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			sent_at TEXT NOT NULL,
			unread INTEGER NOT NULL DEFAULT 0,
			show_avatar INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range statements {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize history schema: %w", err)
		}
	}
	return nil
}

// Insert archives messages after every message already stored.
func (a *Archive) Insert(ctx context.Context, msgs ...models.Message) error {
	if a == nil || a.db == nil {
		return ErrArchiveClosed
	}
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("invalid message %q: %w", msg.ID, err)
		}
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archived_messages (id, sender, kind, payload, sent_at, unread, show_avatar)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range msgs {
		payload, err := json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload of %q: %w", msg.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			msg.ID,
			string(msg.Sender),
			string(msg.Kind()),
			string(payload),
			msg.Timestamp.UTC().Format(time.RFC3339Nano),
			boolToInt(msg.Unread),
			boolToInt(msg.ShowAvatar),
		); err != nil {
			return fmt.Errorf("failed to archive message %q: %w", msg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive insert: %w", err)
	}
	return nil
}

// Count returns the number of archived messages.
func (a *Archive) Count(ctx context.Context) (int, error) {
	if a == nil || a.db == nil {
		return 0, ErrArchiveClosed
	}
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archived_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archived messages: %w", err)
	}
	return n, nil
}

// Before returns up to limit messages older than the message with id cursor.
// An empty cursor pages back from the newest archived message.
func (a *Archive) Before(ctx context.Context, cursor string, limit int) (Page, error) {
	if a == nil || a.db == nil {
		return Page{}, ErrArchiveClosed
	}
	if limit <= 0 {
		return Page{}, ErrInvalidLimit
	}

	upper := int64(-1)
	if cursor != "" {
		err := a.db.QueryRowContext(ctx, `SELECT seq FROM archived_messages WHERE id = ?`, cursor).Scan(&upper)
		if errors.Is(err, sql.ErrNoRows) {
			return Page{}, fmt.Errorf("%w: %s", ErrCursorNotFound, cursor)
		}
		if err != nil {
			return Page{}, fmt.Errorf("failed to resolve cursor: %w", err)
		}
	}

	query := `
		SELECT seq, id, sender, kind, payload, sent_at, unread, show_avatar
		FROM archived_messages`
	args := []any{}
	if upper >= 0 {
		query += ` WHERE seq < ?`
		args = append(args, upper)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return Page{}, err
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("failed to read archive rows: %w", err)
	}

	page := Page{}
	if len(msgs) > limit {
		page.HasMore = true
		msgs = msgs[:limit]
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	page.Messages = msgs
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (models.Message, error) {
	var (
		seq        int64
		msg        models.Message
		sender     string
		kind       string
		payload    string
		sentAt     string
		unread     int
		showAvatar int
	)
	if err := row.Scan(&seq, &msg.ID, &sender, &kind, &payload, &sentAt, &unread, &showAvatar); err != nil {
		return models.Message{}, fmt.Errorf("failed to scan archived message: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, sentAt)
	if err != nil {
		return models.Message{}, fmt.Errorf("invalid timestamp on %q: %w", msg.ID, err)
	}
	p, err := decodePayload(models.Kind(kind), payload)
	if err != nil {
		return models.Message{}, fmt.Errorf("invalid payload on %q: %w", msg.ID, err)
	}

	msg.Sender = models.Sender(sender)
	msg.Timestamp = ts
	msg.Unread = unread != 0
	msg.ShowAvatar = showAvatar != 0
	msg.Payload = p
	return msg, nil
}

func decodePayload(kind models.Kind, raw string) (models.Payload, error) {
	switch kind {
	case models.KindText:
		var p models.Text
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case models.KindLinkSnippet:
		var p models.LinkSnippet
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case models.KindComponent:
		var p models.Component
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
