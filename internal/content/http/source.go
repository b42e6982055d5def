package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Source fetches the listing from a remote content service.
type Source struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// CategoriesWithJournals implements content.Source.
func (s *Source) CategoriesWithJournals(ctx context.Context) ([]content.Category, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header.Set("Accept", "application/json")

	slog.DebugContext(ctx, "fetching categories", log.ScrubbedURL("url", s.url))

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// Drain to allow connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, errors.Errorf("unexpected content service response status '%s'", res.Status)
	}

	categories, err := content.Decode(res.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return categories, nil
}

func NewSource(url string, client *http.Client, limiter *rate.Limiter) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &Source{
		url:     url,
		client:  client,
		limiter: limiter,
	}
}

var _ content.Source = &Source{}
