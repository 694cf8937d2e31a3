package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"uwsched/internal/scrapers/expert"
	"uwsched/lib/configutil"
	configlibsql "uwsched/lib/configutil/libsql"
	"uwsched/lib/timezone"

	"github.com/joho/godotenv"
)

const (
	driverChrome = "chrome"
	driverHttp   = "http"
)

type ChromeConfig struct {
	ExecPath           string   `json:"exec_path"`
	Headful            *bool    `json:"headful"`
	Flags              []string `json:"flags"`
	StepTimeoutSeconds int      `json:"step_timeout_seconds" validate:"gte=1"`
	SettleDelayMillis  *int     `json:"settle_delay_ms" validate:"omitempty,gte=0"`
}

type HttpConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" validate:"gte=1"`
	// write every request and response to <dev_state>/resty/expert
	DumpMessages *bool `json:"dump_messages"`
}

type Config struct {
	Driver    string              `json:"driver" validate:"oneof=chrome http"`
	URL       string              `json:"url" validate:"required,url"`
	Chrome    ChromeConfig        `json:"chrome"`
	Http      HttpConfig          `json:"http"`
	Database  configlibsql.Struct `json:"database"`
	TermStart string              `json:"term_start" validate:"omitempty,datetime=2006-01-02"`
}

func ptr[T any](value T) *T {
	return &value
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}
	return *value
}

func defaultConfig() Config {
	chrome := expert.DefaultChromeConfig()
	http := expert.DefaultHTTPConfig()
	return Config{
		Driver: driverChrome,
		URL:    expert.DefaultURL,
		Chrome: ChromeConfig{
			Flags:              chrome.Flags,
			StepTimeoutSeconds: int(chrome.StepTimeout / time.Second),
			SettleDelayMillis:  ptr(int(chrome.SettleDelay / time.Millisecond)),
		},
		Http: HttpConfig{
			TimeoutSeconds: int(http.Timeout / time.Second),
		},
	}
}

// loadConfig reads uwsched.json5 (and uwsched.local.json5) from the closest
// directory that has one, environment variables take precedence over both.
func loadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := configutil.ReadRecursively("uwsched.json5", defaultConfig())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if path := os.Getenv("UWSCHED_CHROME_PATH"); path != "" {
		cfg.Chrome.ExecPath = path
	}
	if driver := os.Getenv("UWSCHED_DRIVER"); driver != "" {
		cfg.Driver = strings.ToLower(driver)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	err := configutil.Validate(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) chromeConfig() expert.ChromeConfig {
	config := expert.DefaultChromeConfig()
	config.URL = c.URL
	config.ExecPath = c.Chrome.ExecPath
	config.Headful = deref(c.Chrome.Headful)
	config.Flags = c.Chrome.Flags
	config.StepTimeout = time.Duration(c.Chrome.StepTimeoutSeconds) * time.Second
	if c.Chrome.SettleDelayMillis != nil {
		config.SettleDelay = time.Duration(*c.Chrome.SettleDelayMillis) * time.Millisecond
	}
	return config
}

func (c Config) httpConfig() expert.HTTPConfig {
	config := expert.DefaultHTTPConfig()
	config.URL = c.URL
	config.Timeout = time.Duration(c.Http.TimeoutSeconds) * time.Second
	return config
}

// termStart is the first day of classes used for calendar export, it
// defaults to today.
func parseTermStart(value string) (time.Time, error) {
	if value == "" {
		return timezone.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, timezone.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse term start: %w", err)
	}
	return t, nil
}
