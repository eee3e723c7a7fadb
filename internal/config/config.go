// Package config loads the suite's parameters from a flat properties file into
// an immutable Config. Environment variables prefixed FLIGHTCHECK_ override
// file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/v0xg/flightcheck/internal/ui"
)

// DefaultFile is read when no path is given
const DefaultFile = "config.properties"

// Config holds every parameter a run needs. Build it with Load or FromMap.
type Config struct {
	Browser        string
	Headless       bool
	Stealth        bool
	Timeout        time.Duration
	BaseURL        string
	ScreenshotPath string
	ArtifactPath   string
	ViewportWidth  int
	ViewportHeight int

	OriginCity      string
	DestinationCity string
	DepartureDate   Date
	ReturnDate      Date
	OneWayDate      Date
	Airline         string

	DepartureStartHour int
	DepartureEndHour   int
	MaxMonthAttempts   int

	settle     time.Duration
	poll       time.Duration
	dragHold   time.Duration
	dragSettle time.Duration
	pageTurn   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("browser", "chrome")
	v.SetDefault("headless", false)
	v.SetDefault("stealth", false)
	v.SetDefault("timeout", 15)
	v.SetDefault("baseUrl", "https://www.enuygun.com")
	v.SetDefault("screenshotPath", "screenshots/")
	v.SetDefault("artifactPath", "artifacts/")
	v.SetDefault("viewportWidth", 1440)
	v.SetDefault("viewportHeight", 900)
	v.SetDefault("originCity", "İstanbul")
	v.SetDefault("destinationCity", "Ankara")
	v.SetDefault("airline", "Türk Hava Yolları")
	v.SetDefault("departureStartHour", 6)
	v.SetDefault("departureEndHour", 18)
	v.SetDefault("maxMonthAttempts", 24)
	v.SetDefault("settleMs", 1000)
	v.SetDefault("pollMs", 100)
	v.SetDefault("dragHoldMs", 100)
	v.SetDefault("dragSettleMs", 500)
	v.SetDefault("pageTurnMs", 800)
}

// Load reads .env (if present) and the properties file at path.
// An empty path falls back to DefaultFile; a missing default file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("properties")
	v.SetEnvPrefix("FLIGHTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return build(v)
}

// FromMap builds a Config from literal key/value pairs on top of the defaults
func FromMap(values map[string]string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	c := &Config{
		Browser:            v.GetString("browser"),
		Headless:           v.GetBool("headless"),
		Stealth:            v.GetBool("stealth"),
		Timeout:            time.Duration(v.GetInt("timeout")) * time.Second,
		BaseURL:            v.GetString("baseUrl"),
		ScreenshotPath:     v.GetString("screenshotPath"),
		ArtifactPath:       v.GetString("artifactPath"),
		ViewportWidth:      v.GetInt("viewportWidth"),
		ViewportHeight:     v.GetInt("viewportHeight"),
		OriginCity:         v.GetString("originCity"),
		DestinationCity:    v.GetString("destinationCity"),
		Airline:            v.GetString("airline"),
		DepartureStartHour: v.GetInt("departureStartHour"),
		DepartureEndHour:   v.GetInt("departureEndHour"),
		MaxMonthAttempts:   v.GetInt("maxMonthAttempts"),
		settle:             ms(v, "settleMs"),
		poll:               ms(v, "pollMs"),
		dragHold:           ms(v, "dragHoldMs"),
		dragSettle:         ms(v, "dragSettleMs"),
		pageTurn:           ms(v, "pageTurnMs"),
	}

	var err error
	dates := []struct {
		key  string
		dest *Date
	}{
		{"departureDate", &c.DepartureDate},
		{"returnDate", &c.ReturnDate},
		{"oneWayDepartureDate", &c.OneWayDate},
	}
	for _, d := range dates {
		raw := v.GetString(d.key)
		if raw == "" {
			continue
		}
		if *d.dest, err = ParseDate(raw); err != nil {
			return nil, fmt.Errorf("config %s: %w", d.key, err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("config timeout: must be positive, got %s", c.Timeout)
	}
	if c.BaseURL == "" {
		return errors.New("config baseUrl: required")
	}
	if c.DepartureStartHour < 0 || c.DepartureEndHour > 23 || c.DepartureStartHour > c.DepartureEndHour {
		return fmt.Errorf("config departure hours: invalid window %d-%d", c.DepartureStartHour, c.DepartureEndHour)
	}
	if !c.ReturnDate.IsZero() && !c.DepartureDate.IsZero() && c.ReturnDate.Time().Before(c.DepartureDate.Time()) {
		return fmt.Errorf("config returnDate %s: before departureDate %s", c.ReturnDate, c.DepartureDate)
	}
	return nil
}

// WithHeadless returns a copy with the headless flag replaced
func (c *Config) WithHeadless(on bool) *Config {
	cp := *c
	cp.Headless = on
	return &cp
}

// Timing returns the engine bounds and settle delays
func (c *Config) Timing() ui.Timing {
	return ui.Timing{
		Bound:      c.Timeout,
		Poll:       c.poll,
		Settle:     c.settle,
		DragHold:   c.dragHold,
		DragSettle: c.dragSettle,
		PageTurn:   c.pageTurn,
	}
}

// Entries lists the effective values for display
func (c *Config) Entries() [][2]string {
	return [][2]string{
		{"browser", c.Browser},
		{"headless", fmt.Sprint(c.Headless)},
		{"stealth", fmt.Sprint(c.Stealth)},
		{"timeout", c.Timeout.String()},
		{"baseUrl", c.BaseURL},
		{"screenshotPath", c.ScreenshotPath},
		{"artifactPath", c.ArtifactPath},
		{"originCity", c.OriginCity},
		{"destinationCity", c.DestinationCity},
		{"departureDate", dateOrEmpty(c.DepartureDate)},
		{"returnDate", dateOrEmpty(c.ReturnDate)},
		{"oneWayDepartureDate", dateOrEmpty(c.OneWayDate)},
		{"airline", c.Airline},
		{"departureWindow", fmt.Sprintf("%02d:00-%02d:00", c.DepartureStartHour, c.DepartureEndHour)},
	}
}

func dateOrEmpty(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func ms(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Millisecond
}
