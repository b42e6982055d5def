package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/content/testsuite"
	"github.com/pkg/errors"
)

func TestCatalog(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	dbPath := filepath.Join(cwd, "testdata", "catalog.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.RemoveAll(dbPath + suffix); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	ctx := context.Background()

	catalog, err := NewCatalog(ctx, dbPath)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer catalog.Close()

	empty, err := catalog.CategoriesWithJournals(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 0, len(empty); e != g {
		t.Errorf("len(empty): expected '%v', got '%v'", e, g)
	}

	if err := catalog.Replace(ctx, testsuite.Listing()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	testsuite.TestSource(t, catalog)

	// Replacing twice must not duplicate the listing
	if err := catalog.Replace(ctx, testsuite.Listing()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	testsuite.TestSource(t, catalog)

	source, err := content.New(Type, &Options{Path: dbPath})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer source.(*Catalog).Close()

	testsuite.TestSource(t, source)
}

func TestNewCatalogUnreachablePath(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "missing", "dir", "catalog.db")

	catalog, err := NewCatalog(ctx, dbPath)
	if err == nil {
		catalog.Close()
		t.Fatalf("err: expected an error, got nil")
	}

	if catalog != nil {
		t.Errorf("catalog: expected nil, got '%v'", catalog)
	}
}
