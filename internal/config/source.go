package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bornholm/masthead/internal/content"
	contenthttp "github.com/bornholm/masthead/internal/content/http"
	"github.com/bornholm/masthead/internal/content/s3"
	contentsqlite "github.com/bornholm/masthead/internal/content/sqlite"
	"github.com/bornholm/masthead/internal/session"
	"github.com/bornholm/masthead/internal/session/memory"
	sessionsqlite "github.com/bornholm/masthead/internal/session/sqlite"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Source selects a registered implementation and its options.
type Source struct {
	Type    InterpolatedString `yaml:"type"`
	Options *InterpolatedMap   `yaml:"options"`
}

func (s Source) OptionsData() map[string]any {
	if s.Options == nil || s.Options.Data == nil {
		return map[string]any{}
	}

	return s.Options.Data
}

func NewDefaultSessionConfig() Source {
	return Source{
		Type: InterpolatedString(fmt.Sprintf("${MASTHEAD_SESSION_TYPE:-%s}", memory.Type)),
		Options: &InterpolatedMap{
			Data: map[string]any{},
		},
	}
}

func NewSessionConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":      []*yaml.Comment{yaml.HeadComment(" Session store configuration")},
		".type": []*yaml.Comment{yaml.HeadComment(" Session store type", fmt.Sprintf(" Available: %v", session.Registered()))},
		".options": []*yaml.Comment{
			yaml.HeadComment(" Session store options"),
			getOptionComment("SQLite session store", sessionsqlite.Options{
				Path:         "sessions.db",
				PollInterval: sessionsqlite.DefaultPollInterval,
			}),
		},
	}
}

func NewDefaultContentConfig() Source {
	return Source{
		Type: InterpolatedString(fmt.Sprintf("${MASTHEAD_CONTENT_TYPE:-%s}", contenthttp.Type)),
		Options: &InterpolatedMap{
			Data: map[string]any{
				"url":     "${MASTHEAD_CONTENT_URL:-http://localhost:8080" + content.CategoriesWithJournalsPath + "}",
				"timeout": "${MASTHEAD_CONTENT_TIMEOUT:-10s}",
			},
		},
	}
}

func NewContentConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":      []*yaml.Comment{yaml.HeadComment(" Journal listing displayed by the header")},
		".type": []*yaml.Comment{yaml.HeadComment(" Content source type", fmt.Sprintf(" Available: %v", content.Registered()))},
		".options": []*yaml.Comment{
			yaml.HeadComment(" Content source options"),
			getOptionComment("S3 content source", s3.Options{
				Endpoint: "localhost:9000",
				Bucket:   "content",
				Object:   "journal-categories.json",
			}),
		},
	}
}

func NewDefaultCatalogConfig() Source {
	return Source{
		Type: InterpolatedString(fmt.Sprintf("${MASTHEAD_CATALOG_TYPE:-%s}", contentsqlite.Type)),
		Options: &InterpolatedMap{
			Data: map[string]any{
				"path": "${MASTHEAD_CATALOG_PATH:-catalog.db}",
			},
		},
	}
}

func NewCatalogConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":      []*yaml.Comment{yaml.HeadComment(" Journal listing served on " + content.CategoriesWithJournalsPath)},
		".type": []*yaml.Comment{yaml.HeadComment(" Catalog source type", fmt.Sprintf(" Available: %v", content.Registered()))},
	}
}

func getOptionComment(message string, opts any) *yaml.Comment {
	rawOpts, err := yaml.Marshal(opts)
	if err != nil {
		panic(errors.WithStack(err))
	}

	comments := []string{message, "options:"}
	comments = append(comments, slices.Collect(func(yield func(string) bool) {
		for _, str := range strings.Split(string(rawOpts), "\n") {
			if !yield("  " + str) {
				return
			}
		}
	})...)

	return yaml.FootComment(comments...)
}
