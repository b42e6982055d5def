package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestContextHandler(t *testing.T) {
	var buff bytes.Buffer

	logger := slog.New(ContextHandler{
		Handler: slog.NewTextHandler(&buff, nil),
	})

	ctx := WithAttrs(context.Background(), slog.String("session", "abc"))
	ctx = WithAttrs(ctx, slog.String("header", "def"))

	logger.InfoContext(ctx, "hello", Error(errors.New("boom")))

	output := buff.String()

	for _, expected := range []string{"session=abc", "header=def", "error.message=boom"} {
		if !strings.Contains(output, expected) {
			t.Errorf("output: expected to contain '%s', got '%s'", expected, output)
		}
	}
}
