package sqlite

import (
	"context"
	"time"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/store"
	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var schema = store.Schema{
	Migrations: []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			route TEXT,
			sort_order INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS journals (
			id INTEGER PRIMARY KEY,
			category_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			print_issn TEXT,
			e_issn TEXT,
			sort_order INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			FOREIGN KEY(category_id) REFERENCES categories(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journals_category ON journals(category_id, sort_order);`,
	},
}

// Catalog stores the category to journal listing in sqlite.
type Catalog struct {
	db *store.Store
}

// CategoriesWithJournals implements content.Source.
func (c *Catalog) CategoriesWithJournals(ctx context.Context) ([]content.Category, error) {
	categories := make([]content.Category, 0)

	err := c.db.Do(ctx, func(conn *sqlite.Conn) error {
		ids := make([]int64, 0)

		err := sqlitex.Execute(conn, `SELECT id, title, COALESCE(route, '') FROM categories ORDER BY sort_order, id`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ids = append(ids, stmt.ColumnInt64(0))
				categories = append(categories, content.Category{
					Title:    stmt.ColumnText(1),
					Route:    stmt.ColumnText(2),
					Journals: make([]content.Journal, 0),
				})
				return nil
			},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		for idx, id := range ids {
			query := `SELECT title, COALESCE(print_issn, ''), COALESCE(e_issn, '') FROM journals WHERE category_id = ? ORDER BY sort_order, id`
			err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
				Args: []any{id},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					categories[idx].Journals = append(categories[idx].Journals, content.Journal{
						Title:     stmt.ColumnText(0),
						PrintISSN: stmt.ColumnText(1),
						EISSN:     stmt.ColumnText(2),
					})
					return nil
				},
			})
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return categories, nil
}

// Replace swaps the whole listing in a single transaction.
func (c *Catalog) Replace(ctx context.Context, categories []content.Category) error {
	return c.db.Tx(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, `DELETE FROM categories`, nil); err != nil {
			return errors.WithStack(err)
		}

		now := time.Now().UTC().Unix()

		for categoryIndex, category := range categories {
			var categoryID int64

			err := sqlitex.Execute(conn, `INSERT INTO categories (title, route, sort_order, created_at) VALUES (?, NULLIF(?, ''), ?, ?) RETURNING id`, &sqlitex.ExecOptions{
				Args: []any{category.Title, category.Route, categoryIndex, now},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					categoryID = stmt.ColumnInt64(0)
					return nil
				},
			})
			if err != nil {
				return errors.WithStack(err)
			}

			for journalIndex, journal := range category.Journals {
				err := sqlitex.Execute(conn, `INSERT INTO journals (category_id, title, print_issn, e_issn, sort_order, created_at) VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?)`, &sqlitex.ExecOptions{
					Args: []any{categoryID, journal.Title, journal.PrintISSN, journal.EISSN, journalIndex, now},
				})
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}

		return nil
	})
}

func (c *Catalog) Close() error {
	return errors.WithStack(c.db.Close())
}

func NewCatalog(ctx context.Context, path string) (*Catalog, error) {
	db := store.NewStore(path, schema)

	if err := db.HealthCheck(ctx); err != nil {
		return nil, errors.WithStack(db.CloseOnError(err))
	}

	return &Catalog{db: db}, nil
}

var _ content.Source = &Catalog{}
