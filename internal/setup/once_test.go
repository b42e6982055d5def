package setup

import (
	"context"
	"testing"

	"github.com/bornholm/masthead/internal/config"
	"github.com/pkg/errors"
)

func TestCreateFromConfigOnce(t *testing.T) {
	calls := 0

	create := createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*int, error) {
		calls++
		value := calls
		return &value, nil
	})

	ctx := context.Background()
	conf := config.NewDefaultConfig()

	first, err := create(ctx, conf)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	second, err := create(ctx, conf)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if first != second {
		t.Errorf("expected the same instance on every call")
	}

	if e, g := 1, calls; e != g {
		t.Errorf("calls: expected '%v', got '%v'", e, g)
	}
}

func TestCreateFromConfigOnceError(t *testing.T) {
	create := createFromConfigOnce(func(ctx context.Context, conf *config.Config) (string, error) {
		return "ignored", errors.New("boom")
	})

	value, err := create(context.Background(), config.NewDefaultConfig())
	if err == nil {
		t.Fatalf("expected an error")
	}

	if e, g := "", value; e != g {
		t.Errorf("value: expected '%v', got '%v'", e, g)
	}
}

func TestGetRandomBytes(t *testing.T) {
	first, err := getRandomBytes(32)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	second, err := getRandomBytes(32)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 32, len(first); e != g {
		t.Errorf("len(first): expected '%v', got '%v'", e, g)
	}

	if string(first) == string(second) {
		t.Errorf("expected distinct keys")
	}
}
