package log

import (
	"log/slog"
	"net/url"
	"strings"
)

const scrubbed = "xxx"

var sensitiveParams = []string{"token", "key", "secret", "password", "signature"}

// ScrubbedURL logs rawURL with its user info and credential-looking query
// parameters replaced.
func ScrubbedURL(name string, rawURL string) slog.Attr {
	u, err := url.Parse(rawURL)
	if err != nil {
		return slog.String(name, rawURL)
	}

	copy := *u

	if copy.User != nil {
		copy.User = url.UserPassword(scrubbed, scrubbed)
	}

	if copy.RawQuery != "" {
		query := copy.Query()
		for param := range query {
			if isSensitive(param) {
				query.Set(param, scrubbed)
			}
		}

		copy.RawQuery = query.Encode()
	}

	return slog.String(name, copy.String())
}

func isSensitive(param string) bool {
	param = strings.ToLower(param)
	for _, s := range sensitiveParams {
		if strings.Contains(param, s) {
			return true
		}
	}

	return false
}
