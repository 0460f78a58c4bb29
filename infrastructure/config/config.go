// Package config loads suite settings from .env, an optional TOML file and the environment,
// in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"iso2_automation/domain/entities"
)

// Config holds every setting the suite reads
type Config struct {
	Env     string
	BaseURL string

	AuthMode         entities.AuthMode
	AdminEmail       string
	VerificationCode string
	AdminUsername    string
	AdminPassword    string
	AuthenticatedURL string
	EmailDomain      string

	Browser        string
	Headless       bool
	SlowMo         time.Duration
	ViewportWidth  int
	ViewportHeight int

	DefaultTimeout    time.Duration
	NavigationTimeout time.Duration
	SignalTimeout     time.Duration

	ScreenshotOnFailure bool
	ScreenshotDir       string
	RecordVideo         bool
	VideoDir            string
	TraceOn             bool
	TraceDir            string
	StateDir            string

	LogDir   string
	LogLevel string
}

// ValidationError lists every configuration problem found
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// fileConfig is the optional TOML overlay; empty values keep the profile default
type fileConfig struct {
	App struct {
		BaseURL          string `toml:"base_url"`
		AuthMode         string `toml:"auth_mode"`
		AdminEmail       string `toml:"admin_email"`
		AdminUsername    string `toml:"admin_username"`
		AuthenticatedURL string `toml:"authenticated_url"`
		EmailDomain      string `toml:"email_domain"`
	} `toml:"app"`
	Browser struct {
		Engine         string `toml:"engine"`
		Headless       *bool  `toml:"headless"`
		SlowMo         string `toml:"slow_mo"`
		ViewportWidth  int    `toml:"viewport_width"`
		ViewportHeight int    `toml:"viewport_height"`
	} `toml:"browser"`
	Timeouts struct {
		Default    string `toml:"default"`
		Navigation string `toml:"navigation"`
		Signal     string `toml:"signal"`
	} `toml:"timeouts"`
	Artifacts struct {
		ScreenshotOnFailure *bool  `toml:"screenshot_on_failure"`
		ScreenshotDir       string `toml:"screenshot_dir"`
		RecordVideo         *bool  `toml:"record_video"`
		VideoDir            string `toml:"video_dir"`
		TraceOn             *bool  `toml:"trace_on"`
		TraceDir            string `toml:"trace_dir"`
		StateDir            string `toml:"state_dir"`
	} `toml:"artifacts"`
	Log struct {
		Dir   string `toml:"dir"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load reads .env (optional), the profile selected by ENV, the TOML file named by CONFIG_FILE
// and finally environment variables.
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	cfg := Profile(os.Getenv("ENV"))

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Env:               "default",
		BaseURL:           "https://your-app-url.com",
		AuthMode:          entities.AuthEmail,
		AdminEmail:        "qa_automation@bodegaai.com",
		VerificationCode:  "123456",
		AdminUsername:     "admin",
		AdminPassword:     "admin123",
		AuthenticatedURL:  "**/stores",
		EmailDomain:       "bodegaai.com",
		Browser:           "chromium",
		Headless:          false,
		SlowMo:            100 * time.Millisecond,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		DefaultTimeout:    30 * time.Second,
		NavigationTimeout: 30 * time.Second,
		SignalTimeout:     10 * time.Second,

		ScreenshotOnFailure: true,
		ScreenshotDir:       "screenshots",
		VideoDir:            "videos",
		TraceDir:            "traces",
		StateDir:            ".browser_state",
		LogDir:              "logs",
		LogLevel:            "info",
	}
}

// Profile returns defaults adjusted for a named environment; unknown names get the defaults
func Profile(name string) *Config {
	cfg := Default()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "development":
		cfg.Env = "development"
		cfg.BaseURL = "http://localhost:3000"
	case "staging":
		cfg.Env = "staging"
		cfg.BaseURL = "https://staging.your-app-url.com"
	case "production":
		cfg.Env = "production"
		cfg.BaseURL = "https://your-app-url.com"
		cfg.Headless = true
		cfg.SlowMo = 0
	}
	return cfg
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setString(&c.BaseURL, fc.App.BaseURL)
	if fc.App.AuthMode != "" {
		c.AuthMode = entities.AuthMode(strings.ToLower(fc.App.AuthMode))
	}
	setString(&c.AdminEmail, fc.App.AdminEmail)
	setString(&c.AdminUsername, fc.App.AdminUsername)
	setString(&c.AuthenticatedURL, fc.App.AuthenticatedURL)
	setString(&c.EmailDomain, fc.App.EmailDomain)

	setString(&c.Browser, fc.Browser.Engine)
	setBool(&c.Headless, fc.Browser.Headless)
	if c.Headless && fc.Browser.Headless != nil && fc.Browser.SlowMo == "" {
		c.SlowMo = 0
	}
	if fc.Browser.ViewportWidth > 0 {
		c.ViewportWidth = fc.Browser.ViewportWidth
	}
	if fc.Browser.ViewportHeight > 0 {
		c.ViewportHeight = fc.Browser.ViewportHeight
	}

	durations := []struct {
		dst *time.Duration
		raw string
		key string
	}{
		{&c.SlowMo, fc.Browser.SlowMo, "browser.slow_mo"},
		{&c.DefaultTimeout, fc.Timeouts.Default, "timeouts.default"},
		{&c.NavigationTimeout, fc.Timeouts.Navigation, "timeouts.navigation"},
		{&c.SignalTimeout, fc.Timeouts.Signal, "timeouts.signal"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := ParseMillisOrDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config %s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}

	setBool(&c.ScreenshotOnFailure, fc.Artifacts.ScreenshotOnFailure)
	setString(&c.ScreenshotDir, fc.Artifacts.ScreenshotDir)
	setBool(&c.RecordVideo, fc.Artifacts.RecordVideo)
	setString(&c.VideoDir, fc.Artifacts.VideoDir)
	setBool(&c.TraceOn, fc.Artifacts.TraceOn)
	setString(&c.TraceDir, fc.Artifacts.TraceDir)
	setString(&c.StateDir, fc.Artifacts.StateDir)
	setString(&c.LogDir, fc.Log.Dir)
	setString(&c.LogLevel, fc.Log.Level)
	return nil
}

func (c *Config) applyEnv() error {
	c.BaseURL = getEnvOrDefault("BASE_URL", c.BaseURL)
	c.AuthMode = entities.AuthMode(strings.ToLower(getEnvOrDefault("AUTH_MODE", string(c.AuthMode))))
	c.AdminEmail = getEnvOrDefault("ADMIN_EMAIL", c.AdminEmail)
	c.VerificationCode = getEnvOrDefault("VERIFICATION_CODE", c.VerificationCode)
	c.AdminUsername = getEnvOrDefault("ADMIN_USERNAME", c.AdminUsername)
	c.AdminPassword = getEnvOrDefault("ADMIN_PASSWORD", c.AdminPassword)
	c.AuthenticatedURL = getEnvOrDefault("AUTHENTICATED_URL", c.AuthenticatedURL)
	c.EmailDomain = getEnvOrDefault("EMAIL_DOMAIN", c.EmailDomain)

	c.Browser = strings.ToLower(getEnvOrDefault("BROWSER", c.Browser))

	var problems []string
	ints := []struct {
		dst *int
		key string
	}{
		{&c.ViewportWidth, "VIEWPORT_WIDTH"},
		{&c.ViewportHeight, "VIEWPORT_HEIGHT"},
	}
	for _, i := range ints {
		v, err := parseIntOrDefault(i.key, *i.dst)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		*i.dst = v
	}

	headlessSet := os.Getenv("HEADLESS") != ""
	c.Headless = parseBoolOrDefault("HEADLESS", c.Headless)
	if headlessSet && c.Headless && os.Getenv("SLOW_MO") == "" {
		c.SlowMo = 0
	}

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.SlowMo, "SLOW_MO"},
		{&c.DefaultTimeout, "DEFAULT_TIMEOUT"},
		{&c.NavigationTimeout, "NAVIGATION_TIMEOUT"},
		{&c.SignalTimeout, "SIGNAL_TIMEOUT"},
	}
	for _, d := range durations {
		v, err := parseDurationOrDefault(d.key, *d.dst)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		*d.dst = v
	}

	c.ScreenshotOnFailure = parseBoolOrDefault("SCREENSHOT_ON_FAILURE", c.ScreenshotOnFailure)
	c.ScreenshotDir = getEnvOrDefault("SCREENSHOT_DIR", c.ScreenshotDir)
	c.RecordVideo = parseBoolOrDefault("RECORD_VIDEO", c.RecordVideo)
	c.VideoDir = getEnvOrDefault("VIDEO_DIR", c.VideoDir)
	c.TraceOn = parseBoolOrDefault("TRACE_ON", c.TraceOn)
	c.TraceDir = getEnvOrDefault("TRACE_DIR", c.TraceDir)
	c.StateDir = getEnvOrDefault("STATE_DIR", c.StateDir)
	c.LogDir = getEnvOrDefault("LOG_DIR", c.LogDir)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)

	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.BaseURL) == "" {
		problems = append(problems, "BASE_URL is required")
	}
	switch c.AuthMode {
	case entities.AuthEmail:
		if c.AdminEmail == "" || c.VerificationCode == "" {
			problems = append(problems, "ADMIN_EMAIL and VERIFICATION_CODE are required for AUTH_MODE=email")
		}
	case entities.AuthCredentials:
		if c.AdminUsername == "" || c.AdminPassword == "" {
			problems = append(problems, "ADMIN_USERNAME and ADMIN_PASSWORD are required for AUTH_MODE=credentials")
		}
	default:
		problems = append(problems, fmt.Sprintf("AUTH_MODE must be email or credentials, got %q", c.AuthMode))
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		problems = append(problems, fmt.Sprintf("BROWSER must be chromium, firefox or webkit, got %q", c.Browser))
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		problems = append(problems, "viewport dimensions must be positive")
	}
	if c.DefaultTimeout <= 0 || c.NavigationTimeout <= 0 || c.SignalTimeout <= 0 {
		problems = append(problems, "timeouts must be positive")
	}
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

// URL joins path onto the base URL; absolute URLs are returned unchanged
func (c *Config) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// ParseMillisOrDuration accepts plain milliseconds ("30000") or a Go duration ("30s")
func ParseMillisOrDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseIntOrDefault(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}

func parseBoolOrDefault(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	return strings.EqualFold(raw, "true") || raw == "1"
}

func parseDurationOrDefault(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := ParseMillisOrDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
