package config

import (
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Logger struct {
	Level  InterpolatedLevel  `yaml:"level"`
	Format InterpolatedString `yaml:"format"`
}

// Handler returns the slog handler matching the configured format.
func (l Logger) Handler(w io.Writer) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level:     slog.Level(l.Level),
		AddSource: true,
	}

	switch l.Format {
	case LogFormatText, "":
		return slog.NewTextHandler(w, opts), nil
	case LogFormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, errors.Errorf("unknown log format '%s'", l.Format)
	}
}

func NewDefaultLoggerConfig() Logger {
	return Logger{
		Level:  InterpolatedLevel(slog.LevelInfo),
		Format: "${MASTHEAD_LOGGER_FORMAT:-" + LogFormatText + "}",
	}
}

func NewLoggerConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":        []*yaml.Comment{yaml.HeadComment(" Logger configuration")},
		".level":  []*yaml.Comment{yaml.HeadComment(" Logging level (debug, info, warn, error or their numeric value: -4, 0, 4, 8)")},
		".format": []*yaml.Comment{yaml.HeadComment(" Logging format (text or json)")},
	}
}
