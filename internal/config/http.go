package config

import "github.com/goccy/go-yaml"

type HTTP struct {
	Address     InterpolatedString `yaml:"address"`
	BaseURL     InterpolatedString `yaml:"baseUrl"`
	Session     Cookie             `yaml:"session"`
	RateLimit   RateLimit          `yaml:"rateLimit"`
	DatastarURL InterpolatedString `yaml:"datastarUrl"`
	Metrics     InterpolatedBool   `yaml:"metrics"`
	Debug       InterpolatedBool   `yaml:"debug"`
}

type Cookie struct {
	Name   InterpolatedString `yaml:"name"`
	Key    InterpolatedString `yaml:"key"`
	MaxAge InterpolatedInt    `yaml:"maxAge"`
	Secure InterpolatedBool   `yaml:"secure"`
}

type RateLimit struct {
	Rate  InterpolatedFloat `yaml:"rate"`
	Burst InterpolatedInt   `yaml:"burst"`
}

func NewDefaultHTTPConfig() HTTP {
	return HTTP{
		Address: "${MASTHEAD_HTTP_ADDRESS:-:8080}",
		BaseURL: "${MASTHEAD_HTTP_BASE_URL:-http://localhost:8080}",
		Session: Cookie{
			Name:   "${MASTHEAD_HTTP_SESSION_NAME:-masthead_session}",
			Key:    "${MASTHEAD_HTTP_SESSION_KEY:-}",
			MaxAge: 60 * 60 * 24 * 30,
			Secure: false,
		},
		RateLimit: RateLimit{
			Rate:  10,
			Burst: 20,
		},
		DatastarURL: "${MASTHEAD_HTTP_DATASTAR_URL:-https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js}",
		Metrics:     true,
		Debug:       false,
	}
}

func NewHTTPConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                 []*yaml.Comment{yaml.HeadComment(" Webserver configuration")},
		".address":         []*yaml.Comment{yaml.HeadComment(" Webserver's listening address")},
		".baseUrl":         []*yaml.Comment{yaml.HeadComment(" Public base URL of the website")},
		".session":         []*yaml.Comment{yaml.HeadComment(" Session cookie configuration")},
		".session.key":     []*yaml.Comment{yaml.HeadComment(" Cookie signing key, a random key is generated when empty")},
		".session.maxAge":  []*yaml.Comment{yaml.HeadComment(" Cookie lifetime in seconds")},
		".rateLimit":       []*yaml.Comment{yaml.HeadComment(" Header events rate limit, per session")},
		".rateLimit.rate":  []*yaml.Comment{yaml.HeadComment(" Allowed events per second")},
		".rateLimit.burst": []*yaml.Comment{yaml.HeadComment(" Maximum burst of events")},
		".datastarUrl":     []*yaml.Comment{yaml.HeadComment(" Datastar client script URL")},
		".metrics":         []*yaml.Comment{yaml.HeadComment(" Expose Prometheus metrics on /metrics")},
		".debug":           []*yaml.Comment{yaml.HeadComment(" Expose runtime profiles and vars on /debug/pprof")},
	}
}
