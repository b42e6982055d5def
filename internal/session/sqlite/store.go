package sqlite

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bornholm/masthead/internal/session"
	"github.com/bornholm/masthead/internal/store"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var schema = store.Schema{
	Migrations: []string{
		`CREATE TABLE IF NOT EXISTS session_values (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT,
			deleted BOOLEAN NOT NULL DEFAULT 0,
			origin TEXT NOT NULL,
			revision INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_values_revision ON session_values(revision);`,
	},
}

// Store persists sessions in a sqlite database. Changes are detected
// by polling the revision column, so mutations performed by other
// processes sharing the database are notified too.
type Store struct {
	db       *store.Store
	broker   *session.Broker
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// Get implements session.Store.
func (s *Store) Get(ctx context.Context, sessionID string, key session.Key) (string, bool, error) {
	var (
		value  string
		exists bool
	)

	err := s.db.Do(ctx, func(conn *sqlite.Conn) error {
		query := `SELECT value FROM session_values WHERE session_id = ? AND key = ? AND deleted = 0 LIMIT 1`
		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{sessionID, string(key)},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				exists = stmt.ColumnType(0) != sqlite.TypeNull
				value = stmt.ColumnText(0)
				return nil
			},
		}))
	})
	if err != nil {
		return "", false, errors.WithStack(err)
	}

	if !exists {
		return "", false, nil
	}

	return value, true, nil
}

// Set implements session.Store.
func (s *Store) Set(ctx context.Context, sessionID string, key session.Key, value string, origin string) error {
	return errors.WithStack(s.write(ctx, sessionID, key, &value, origin))
}

// Delete implements session.Store.
func (s *Store) Delete(ctx context.Context, sessionID string, key session.Key, origin string) error {
	return errors.WithStack(s.write(ctx, sessionID, key, nil, origin))
}

func (s *Store) write(ctx context.Context, sessionID string, key session.Key, value *string, origin string) error {
	return s.db.Tx(ctx, func(conn *sqlite.Conn) error {
		var revision int64

		err := sqlitex.Execute(conn, `SELECT COALESCE(MAX(revision), 0) + 1 FROM session_values`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				revision = stmt.ColumnInt64(0)
				return nil
			},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		now := time.Now().UTC().Unix()

		if value == nil {
			query := `UPDATE session_values SET value = NULL, deleted = 1, origin = ?, revision = ?, updated_at = ? WHERE session_id = ? AND key = ? AND deleted = 0`
			err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
				Args: []any{origin, revision, now, sessionID, string(key)},
			})
			return errors.WithStack(err)
		}

		query := `
			INSERT INTO session_values (session_id, key, value, deleted, origin, revision, updated_at)
			VALUES (?, ?, ?, 0, ?, ?, ?)
			ON CONFLICT (session_id, key) DO UPDATE SET
				value = excluded.value,
				deleted = 0,
				origin = excluded.origin,
				revision = excluded.revision,
				updated_at = excluded.updated_at
		`

		err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{sessionID, string(key), *value, origin, revision, now},
		})

		return errors.WithStack(err)
	})
}

// Watch implements session.Store.
func (s *Store) Watch(ctx context.Context, sessionID string, origin string) (<-chan session.Change, error) {
	changes, err := s.broker.Subscribe(ctx, sessionID, origin)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return changes, nil
}

// Close implements session.Store.
func (s *Store) Close() error {
	var err error

	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.broker.Close()
		err = s.db.Close()
	})

	return errors.WithStack(err)
}

func (s *Store) poll(since int64) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}

		changes, last, err := s.changesSince(s.ctx, since)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}

			slog.ErrorContext(s.ctx, "could not poll session changes", log.Error(errors.WithStack(err)))
			continue
		}

		since = last

		for _, c := range changes {
			s.broker.Publish(c)
		}
	}
}

func (s *Store) changesSince(ctx context.Context, since int64) ([]session.Change, int64, error) {
	changes := make([]session.Change, 0)
	last := since

	err := s.db.Do(ctx, func(conn *sqlite.Conn) error {
		query := `SELECT session_id, key, origin, revision FROM session_values WHERE revision > ? ORDER BY revision`
		return errors.WithStack(sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{since},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				changes = append(changes, session.Change{
					SessionID: stmt.ColumnText(0),
					Key:       session.Key(stmt.ColumnText(1)),
					Origin:    stmt.ColumnText(2),
				})
				last = stmt.ColumnInt64(3)
				return nil
			},
		}))
	})
	if err != nil {
		return nil, since, errors.WithStack(err)
	}

	return changes, last, nil
}

func (s *Store) lastRevision(ctx context.Context) (int64, error) {
	var revision int64

	err := s.db.Do(ctx, func(conn *sqlite.Conn) error {
		return errors.WithStack(sqlitex.Execute(conn, `SELECT COALESCE(MAX(revision), 0) FROM session_values`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				revision = stmt.ColumnInt64(0)
				return nil
			},
		}))
	})
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return revision, nil
}

func NewStore(ctx context.Context, path string, interval time.Duration) (*Store, error) {
	db := store.NewStore(path, schema)

	if err := db.HealthCheck(ctx); err != nil {
		return nil, errors.WithStack(db.CloseOnError(err))
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:       db,
		broker:   session.NewBroker(),
		interval: interval,
		ctx:      pollCtx,
		cancel:   cancel,
	}

	since, err := s.lastRevision(ctx)
	if err != nil {
		cancel()
		return nil, errors.WithStack(db.CloseOnError(err))
	}

	s.wg.Add(1)
	go s.poll(since)

	return s, nil
}

var _ session.Store = &Store{}
