package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type Header struct {
	HoverGrace  *InterpolatedDuration `yaml:"hoverGrace"`
	Breakpoint  InterpolatedInt       `yaml:"breakpoint"`
	IdleTimeout *InterpolatedDuration `yaml:"idleTimeout"`
	Menu        InterpolatedString    `yaml:"menu"`
	Templates   Templates             `yaml:"templates"`
}

type Templates struct {
	Dir   InterpolatedString `yaml:"dir"`
	Watch InterpolatedBool   `yaml:"watch"`
}

func NewDefaultHeaderConfig() Header {
	return Header{
		HoverGrace:  NewInterpolatedDuration(200 * time.Millisecond),
		Breakpoint:  1024,
		IdleTimeout: NewInterpolatedDuration(5 * time.Minute),
		Menu:        "${MASTHEAD_HEADER_MENU:-}",
		Templates: Templates{
			Dir:   "${MASTHEAD_HEADER_TEMPLATES_DIR:-}",
			Watch: false,
		},
	}
}

func NewHeaderConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                 []*yaml.Comment{yaml.HeadComment(" Navigation header configuration")},
		".hoverGrace":      []*yaml.Comment{yaml.HeadComment(" Delay before closing a dropdown once the pointer left it")},
		".breakpoint":      []*yaml.Comment{yaml.HeadComment(" Viewport width, in pixels, from which the desktop bar is rendered")},
		".idleTimeout":     []*yaml.Comment{yaml.HeadComment(" Inactivity delay after which a header instance is unmounted")},
		".menu":            []*yaml.Comment{yaml.HeadComment(" Menu inventory YAML file, the built-in inventory is used when empty")},
		".templates.dir":   []*yaml.Comment{yaml.HeadComment(" Directory of templates overriding the built-in ones (templates/views/*.gohtml)")},
		".templates.watch": []*yaml.Comment{yaml.HeadComment(" Reload the override templates on change")},
	}
}
