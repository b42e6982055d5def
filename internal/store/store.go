package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Store is a pool of migrated sqlite connections.
type Store struct {
	pool *sqlitemigration.Pool
}

type Schema struct {
	Migrations           []string
	RepeatableMigrations []string
}

func (s *Store) HealthCheck(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer s.pool.Put(conn)

	if err := s.pool.CheckHealth(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Store) Do(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer s.pool.Put(conn)

	if err := fn(conn); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Store) Tx(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	return errors.WithStack(s.Do(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)
		err = fn(conn)
		return errors.WithStack(err)
	}))
}

func (s *Store) Close() error {
	return errors.WithStack(s.pool.Close())
}

// CloseOnError closes the pool of a store that could not be set up and
// returns err.
func (s *Store) CloseOnError(err error) error {
	if closeErr := s.Close(); closeErr != nil {
		slog.Error("could not close database", log.Error(errors.WithStack(closeErr)))
	}

	return err
}

func NewStore(uri string, schema Schema) *Store {
	pool := sqlitemigration.NewPool(uri, sqlitemigration.Schema{
		Migrations:          schema.Migrations,
		RepeatableMigration: strings.Join(schema.RepeatableMigrations, " "),
	}, sqlitemigration.Options{
		Flags: sqlite.OpenCreate | sqlite.OpenReadWrite | sqlite.OpenWAL,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = on", nil)
		},
	})

	return &Store{
		pool: pool,
	}
}
