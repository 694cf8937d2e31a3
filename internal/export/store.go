package export

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"uwsched/internal/schedule"
	"uwsched/internal/session"
)

//go:embed schema.sql
var Schema string

var ErrNoResults = errors.New("no stored results")

// Store keeps the outcome of every session in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore creates the tables if they don't exist yet.
func OpenStore(ctx context.Context, db *sql.DB) (Store, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return Store{}, fmt.Errorf("apply schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func insertEntries(ctx context.Context, tx *sql.Tx, queryId int64, entries []schedule.Entry) error {
	for i, entry := range entries {
		days, err := json.Marshal(entry.Days)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			"insert into schedule_entry(query_id, position, section, time, days) values (?, ?, ?, ?, ?)",
			queryId, i, entry.Section, entry.Time, string(days),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveSession writes every outcome of a session in a single transaction and
// returns the id of the session.
func (s Store) SaveSession(ctx context.Context, startedAt time.Time, outcomes []session.Outcome) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "insert into session(started_at) values (?)", startedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	sessionId, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, o := range outcomes {
		var errText sql.NullString
		if o.Err != nil {
			errText = sql.NullString{String: o.Err.Error(), Valid: true}
		}
		res, err := tx.ExecContext(
			ctx,
			`insert into query(session_id, position, query_key, subject, course_number, status, error)
			values (?, ?, ?, ?, ?, ?, ?)`,
			sessionId, i, o.Key, o.Subject, o.CourseNumber, string(o.Status), errText,
		)
		if err != nil {
			return 0, fmt.Errorf("insert query '%s': %w", o.Key, err)
		}
		queryId, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		err = insertEntries(ctx, tx, queryId, o.Entries)
		if err != nil {
			return 0, fmt.Errorf("insert entries of '%s': %w", o.Key, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return sessionId, nil
}

// Latest returns the entries of the most recent query of key that found
// something, along with when its session started.
func (s Store) Latest(ctx context.Context, key string) ([]schedule.Entry, time.Time, error) {
	var queryId int64
	var startedAt int64
	err := s.db.QueryRowContext(
		ctx,
		`select query.id, session.started_at from query
		inner join session on session.id = query.session_id
		where query.query_key = ? and query.status = ?
		order by session.started_at desc, query.id desc
		limit 1`,
		key, string(session.StatusFound),
	).Scan(&queryId, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("%s: %w", key, ErrNoResults)
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		"select section, time, days from schedule_entry where query_id = ? order by position",
		queryId,
	)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var entry schedule.Entry
		var days string
		err = rows.Scan(&entry.Section, &entry.Time, &days)
		if err != nil {
			return nil, time.Time{}, err
		}
		err = json.Unmarshal([]byte(days), &entry.Days)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("decode days of %s: %w", entry.Section, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return entries, time.Unix(startedAt, 0), nil
}
