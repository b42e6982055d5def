package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/drone/envsubst"
	"github.com/pkg/errors"

	"github.com/goccy/go-yaml"
)

var getEnv = os.Getenv

// interpolate decodes a scalar, expands its ${VAR} references and parses
// the result.
func interpolate[T any](unmarshal func(any) error, parse func(string) (T, error)) (T, error) {
	var (
		str  string
		zero T
	)

	if err := unmarshal(&str); err != nil {
		return zero, errors.WithStack(err)
	}

	str, err := envsubst.Eval(str, getEnv)
	if err != nil {
		return zero, errors.WithStack(err)
	}

	value, err := parse(str)
	if err != nil {
		return zero, errors.Wrapf(err, "could not parse '%s'", str)
	}

	return value, nil
}

type InterpolatedString string

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (is *InterpolatedString) UnmarshalYAML(unmarshal func(any) error) error {
	str, err := interpolate(unmarshal, func(s string) (string, error) { return s, nil })
	if err != nil {
		return errors.WithStack(err)
	}

	*is = InterpolatedString(str)

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedString)

type InterpolatedInt int

func (ii *InterpolatedInt) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := interpolate(unmarshal, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 32) })
	if err != nil {
		return errors.WithStack(err)
	}

	*ii = InterpolatedInt(int(value))

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedInt)

type InterpolatedFloat float64

func (ifl *InterpolatedFloat) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := interpolate(unmarshal, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	if err != nil {
		return errors.WithStack(err)
	}

	*ifl = InterpolatedFloat(value)

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedFloat)

type InterpolatedBool bool

func (ib *InterpolatedBool) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := interpolate(unmarshal, strconv.ParseBool)
	if err != nil {
		return errors.WithStack(err)
	}

	*ib = InterpolatedBool(value)

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedBool)

// InterpolatedLevel accepts a level name (debug, info, warn, error,
// optionally with an offset like "info+2") or its numeric value.
type InterpolatedLevel slog.Level

func (il *InterpolatedLevel) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := interpolate(unmarshal, parseLevel)
	if err != nil {
		return errors.WithStack(err)
	}

	*il = InterpolatedLevel(value)

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedLevel)

func (il InterpolatedLevel) MarshalYAML() (any, error) {
	return strings.ToLower(slog.Level(il).String()), nil
}

var _ yaml.InterfaceMarshaler = InterpolatedLevel(0)

func parseLevel(str string) (slog.Level, error) {
	if n, err := strconv.Atoi(str); err == nil {
		return slog.Level(n), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(str)); err != nil {
		return 0, errors.WithStack(err)
	}

	return level, nil
}

type InterpolatedMap struct {
	Data map[string]any
}

func (im *InterpolatedMap) UnmarshalYAML(unmarshal func(any) error) error {
	var data map[string]any

	if err := unmarshal(&data); err != nil {
		return errors.WithStack(err)
	}

	interpolated, err := interpolateRecursive(data)
	if err != nil {
		return errors.WithStack(err)
	}

	im.Data = interpolated.(map[string]any)

	return nil
}

func (im *InterpolatedMap) MarshalYAML() (any, error) {
	return im.Data, nil
}

func interpolateRecursive(data any) (any, error) {
	switch typ := data.(type) {
	case map[string]any:
		for key, value := range typ {
			value, err := interpolateRecursive(value)
			if err != nil {
				return nil, errors.Wrapf(err, "key '%s'", key)
			}

			typ[key] = value
		}

	case string:
		value, err := envsubst.Eval(typ, getEnv)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		data = value

	case []any:
		for idx := range typ {
			value, err := interpolateRecursive(typ[idx])
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", idx)
			}

			typ[idx] = value
		}
	}

	return data, nil
}

type InterpolatedDuration time.Duration

func (id *InterpolatedDuration) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := interpolate(unmarshal, parseDuration)
	if err != nil {
		return errors.WithStack(err)
	}

	*id = InterpolatedDuration(value)

	return nil
}

var _ yaml.InterfaceUnmarshaler = new(InterpolatedDuration)

func (id *InterpolatedDuration) MarshalYAML() (any, error) {
	duration := time.Duration(*id)

	return duration.String(), nil
}

var _ yaml.InterfaceMarshaler = new(InterpolatedDuration)

func NewInterpolatedDuration(d time.Duration) *InterpolatedDuration {
	id := InterpolatedDuration(d)
	return &id
}

// parseDuration accepts Go durations ("200ms") or a number of nanoseconds.
func parseDuration(str string) (time.Duration, error) {
	duration, err := time.ParseDuration(str)
	if err == nil {
		return duration, nil
	}

	nanoseconds, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return time.Duration(nanoseconds), nil
}
