package config

import (
	"os"
	"time"

	"github.com/peterhellberg/duration"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL       string `yaml:"ttl"`
		File      string `yaml:"file"`
		DefaultID string `yaml:"defaultId"`
		// TimeLimit overrides every quiz's own limit when set, e.g. "90s" or "PT5M".
		TimeLimit string `yaml:"timeLimit"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the service can run on built-in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// parseDuration accepts Go syntax ("90s", "10m") and ISO-8601 ("PT90S", "P1D").
func parseDuration(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	return duration.Parse(raw)
}

// TTLDuration parses a Go or ISO-8601 duration string, or returns the fallback
// if empty or malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := parseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// TimeLimitSeconds converts the quiz.timeLimit override to whole seconds.
// ok is false when no override is configured.
func (c Config) TimeLimitSeconds() (seconds int, ok bool, err error) {
	if c.Quiz.TimeLimit == "" {
		return 0, false, nil
	}
	d, err := parseDuration(c.Quiz.TimeLimit)
	if err != nil {
		return 0, false, errors.Wrapf(err, "quiz.timeLimit %q", c.Quiz.TimeLimit)
	}
	if d < 0 {
		return 0, false, errors.Errorf("quiz.timeLimit %q is negative", c.Quiz.TimeLimit)
	}
	return int(d / time.Second), true, nil
}

// DefaultQuizID returns quiz.defaultId or fallback.
func (c Config) DefaultQuizID(fallback string) string {
	if c.Quiz.DefaultID != "" {
		return c.Quiz.DefaultID
	}
	return fallback
}
