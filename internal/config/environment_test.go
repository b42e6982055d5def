package config

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

func withEnv(t *testing.T, env map[string]string) {
	previous := getEnv
	getEnv = func(key string) string {
		return env[key]
	}

	t.Cleanup(func() {
		getEnv = previous
	})
}

func TestInterpolatedMap(t *testing.T) {
	type testCase struct {
		Path   string
		Env    map[string]string
		Assert func(t *testing.T, parsed InterpolatedMap)
	}

	testCases := []testCase{
		{
			Path: "testdata/environment/interpolated-map-1.yml",
			Env: map[string]string{
				"TEST_PROP1":      "foo",
				"TEST_SUB_PROP1":  "bar",
				"TEST_SUB2_PROP1": "baz",
			},
			Assert: func(t *testing.T, parsed InterpolatedMap) {
				if e, g := "foo", parsed.Data["prop1"]; e != g {
					t.Errorf("parsed.Data[\"prop1\"]: expected '%v', got '%v'", e, g)
				}

				if e, g := "bar", parsed.Data["sub"].(map[string]any)["subProp1"]; e != g {
					t.Errorf("parsed.Data[\"sub\"][\"subProp1\"]: expected '%v', got '%v'", e, g)
				}

				if e, g := "baz", parsed.Data["sub2"].(map[string]any)["sub2Prop1"].([]any)[0]; e != g {
					t.Errorf("parsed.Data[\"sub2\"][\"sub2Prop1\"][0]: expected '%v', got '%v'", e, g)
				}
			},
		},
		{
			Path: "testdata/environment/interpolated-map-2.yml",
			Env: map[string]string{
				"BAR": "bar",
			},
			Assert: func(t *testing.T, parsed InterpolatedMap) {
				if e, g := "http://bar", parsed.Data["foo"]; e != g {
					t.Errorf("parsed.Data[\"foo\"]: expected '%v', got '%v'", e, g)
				}
			},
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			data, err := os.ReadFile(tc.Path)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			withEnv(t, tc.Env)

			var interpolatedMap InterpolatedMap

			if err := yaml.Unmarshal(data, &interpolatedMap); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			tc.Assert(t, interpolatedMap)
		})
	}
}

func TestInterpolatedDuration(t *testing.T) {
	testCases := []struct {
		Value    string
		Expected time.Duration
	}{
		{Value: "30s", Expected: 30 * time.Second},
		{Value: "200ms", Expected: 200 * time.Millisecond},
		{Value: "1000", Expected: 1000 * time.Nanosecond},
	}

	data, err := os.ReadFile("testdata/environment/interpolated-duration.yml")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			withEnv(t, map[string]string{"MY_DURATION": tc.Value})

			config := struct {
				Duration *InterpolatedDuration `yaml:"duration"`
			}{
				Duration: NewInterpolatedDuration(-1),
			}

			if err := yaml.Unmarshal(data, &config); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.Expected, time.Duration(*config.Duration); e != g {
				t.Errorf("config.Duration: expected '%v', got '%v'", e, g)
			}
		})
	}
}

type scalars struct {
	Level      InterpolatedLevel `yaml:"level"`
	Rate       InterpolatedFloat `yaml:"rate"`
	Enabled    InterpolatedBool  `yaml:"enabled"`
	Breakpoint InterpolatedInt   `yaml:"breakpoint"`
}

func TestInterpolatedScalars(t *testing.T) {
	data, err := os.ReadFile("testdata/environment/interpolated-scalars.yml")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	t.Run("Valid", func(t *testing.T) {
		withEnv(t, map[string]string{
			"LOG_LEVEL":  "debug",
			"ENABLED":    "true",
			"BREAKPOINT": "768",
		})

		var parsed scalars
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if e, g := slog.LevelDebug, slog.Level(parsed.Level); e != g {
			t.Errorf("parsed.Level: expected '%v', got '%v'", e, g)
		}

		if e, g := InterpolatedFloat(2.5), parsed.Rate; e != g {
			t.Errorf("parsed.Rate: expected '%v', got '%v'", e, g)
		}

		if e, g := InterpolatedBool(true), parsed.Enabled; e != g {
			t.Errorf("parsed.Enabled: expected '%v', got '%v'", e, g)
		}

		if e, g := InterpolatedInt(768), parsed.Breakpoint; e != g {
			t.Errorf("parsed.Breakpoint: expected '%v', got '%v'", e, g)
		}
	})

	t.Run("NumericLevel", func(t *testing.T) {
		withEnv(t, map[string]string{
			"LOG_LEVEL":  "8",
			"RATE":       "1.5",
			"ENABLED":    "false",
			"BREAKPOINT": "1024",
		})

		var parsed scalars
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if e, g := slog.LevelError, slog.Level(parsed.Level); e != g {
			t.Errorf("parsed.Level: expected '%v', got '%v'", e, g)
		}

		if e, g := InterpolatedFloat(1.5), parsed.Rate; e != g {
			t.Errorf("parsed.Rate: expected '%v', got '%v'", e, g)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		withEnv(t, map[string]string{
			"LOG_LEVEL":  "verbose",
			"RATE":       "1",
			"ENABLED":    "true",
			"BREAKPOINT": "1024",
		})

		var parsed scalars
		if err := yaml.Unmarshal(data, &parsed); err == nil {
			t.Errorf("expected an error for an unknown level")
		}
	})
}
