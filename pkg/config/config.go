package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"

	"apod/pkg/client"
)

type Config struct {
	App struct {
		Env            string   `yaml:"env" env:"APP_ENV" env-default:"development" env-description:"deployment environment"`
		Port           string   `yaml:"port" env:"APP_PORT" env-default:"8080" env-description:"http listen port"`
		LogLevel       string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" env-description:"logrus level"`
		LogFormat      string   `yaml:"log_format" env:"LOG_FORMAT" env-default:"json" env-description:"json or text"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*" env-description:"CORS origins"`
	} `yaml:"app"`
	APOD struct {
		URL            string        `yaml:"url" env:"APOD_URL" env-default:"https://api.nasa.gov/planetary/apod" env-description:"upstream endpoint"`
		APIKey         string        `yaml:"api_key" env:"NASA_API_KEY" env-default:"DEMO_KEY" env-description:"personal NASA API key"`
		AttemptTimeout time.Duration `yaml:"attempt_timeout" env:"APOD_ATTEMPT_TIMEOUT" env-default:"10s" env-description:"timeout of a single attempt"`
		MaxAttempts    int           `yaml:"max_attempts" env:"APOD_MAX_ATTEMPTS" env-default:"3" env-description:"attempts per call"`
		BaseDelay      time.Duration `yaml:"base_delay" env:"APOD_BASE_DELAY" env-default:"2s" env-description:"spacing between attempts"`
		RateLimitDelay time.Duration `yaml:"rate_limit_delay" env:"APOD_RATE_LIMIT_DELAY" env-default:"5s" env-description:"extra wait after a 429"`
		RangeOrder     string        `yaml:"range_order" env:"APOD_RANGE_ORDER" env-default:"asc" env-description:"asc or desc"`
		Thumbs         bool          `yaml:"thumbs" env:"APOD_THUMBS" env-default:"true" env-description:"request video thumbnails"`
		RecentDays     int           `yaml:"recent_days" env:"APOD_RECENT_DAYS" env-default:"7" env-description:"recent gallery window"`
		RandomCount    int           `yaml:"random_count" env:"APOD_RANDOM_COUNT" env-default:"6" env-description:"random gallery size"`
	} `yaml:"apod"`
}

// Load reads the config file at path, or the environment when path is empty.
// It is called once at startup; the result is passed down explicitly.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("read config: %w\n%s", err, help)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := client.ParseOrder(c.APOD.RangeOrder); err != nil {
		return err
	}
	if c.APOD.MaxAttempts < 1 {
		return errors.New("APOD_MAX_ATTEMPTS must be at least 1")
	}
	if c.APOD.RecentDays < 0 {
		return errors.New("APOD_RECENT_DAYS must not be negative")
	}
	if c.APOD.RandomCount < 1 {
		return errors.New("APOD_RANDOM_COUNT must be at least 1")
	}
	if _, err := logrus.ParseLevel(c.App.LogLevel); err != nil {
		return err
	}
	switch c.App.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.App.LogFormat)
	}
	return nil
}

// Client maps the APOD section onto the client configuration.
func (c *Config) Client() client.Config {
	order, _ := client.ParseOrder(c.APOD.RangeOrder)

	return client.Config{
		BaseURL:        c.APOD.URL,
		APIKey:         c.APOD.APIKey,
		AttemptTimeout: c.APOD.AttemptTimeout,
		MaxAttempts:    c.APOD.MaxAttempts,
		BaseDelay:      c.APOD.BaseDelay,
		RateLimitDelay: c.APOD.RateLimitDelay,
		RangeOrder:     order,
		Thumbs:         c.APOD.Thumbs,
	}
}

// Logger builds the process logger from the App section.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()

	if c.App.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(new(logrus.JSONFormatter))
	}

	if level, err := logrus.ParseLevel(c.App.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}
