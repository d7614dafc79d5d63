// Package config loads satfinder configuration from a YAML file with
// SATFINDER_* environment variable overrides. Environment wins over file,
// file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/logging"
)

// Config is the full process configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	TLE      TLEConfig      `yaml:"tle"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Observer ObserverConfig `yaml:"observer"`
	Logging  logging.Config `yaml:"logging"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustProxy trusts X-Forwarded-For / X-Real-IP when logging client
	// addresses. Enable only behind a proxy that sets them.
	TrustProxy bool `yaml:"trust_proxy"`
}

// AuthConfig configures bearer-token auth for mutating endpoints.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// TLEConfig configures catalog fetching and caching.
type TLEConfig struct {
	SourceURL string        `yaml:"source_url"`
	ExtraURLs []string      `yaml:"extra_urls"`
	CacheDir  string        `yaml:"cache_dir"`
	MaxAge    time.Duration `yaml:"max_age"`
}

// SearchConfig configures the pass-finding engine defaults.
type SearchConfig struct {
	Workers              int           `yaml:"workers"`
	SunlitStep           time.Duration `yaml:"sunlit_step"`
	TrackStep            time.Duration `yaml:"track_step"`
	ExclusionPattern     string        `yaml:"exclusion_pattern"`
	StrictSunlitWindow   bool          `yaml:"strict_sunlit_window"`
	AltitudeThresholdDeg float64       `yaml:"altitude_threshold_deg"`
	MinPeakElevationDeg  float64       `yaml:"min_peak_elevation_deg"`
	MinHeightKm          float64       `yaml:"min_height_km"`
	MaxHeightKm          float64       `yaml:"max_height_km"`
	MinDuration          time.Duration `yaml:"min_duration"`
	Window               time.Duration `yaml:"window"`
}

// CacheConfig configures the search-result cache.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// ObserverConfig is the default ground location used when a request omits
// one (CLI searches, track lookups).
type ObserverConfig struct {
	LatitudeDeg  float64 `yaml:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg"`
	AltitudeM    float64 `yaml:"altitude_m"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		TLE: TLEConfig{
			CacheDir: "tle_cache",
			MaxAge:   24 * time.Hour,
		},
		Search: SearchConfig{
			SunlitStep:           10 * time.Second,
			TrackStep:            10 * time.Second,
			ExclusionPattern:     "STARLINK",
			AltitudeThresholdDeg: 10,
			MinPeakElevationDeg:  30,
			MinHeightKm:          200,
			MaxHeightKm:          2000,
			MinDuration:          30 * time.Second,
			Window:               time.Hour,
		},
		Cache:   CacheConfig{Size: 128},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies SATFINDER_* environment overrides, and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	setStr("SATFINDER_HTTP_ADDR", &cfg.HTTP.Addr)
	setBool("SATFINDER_HTTP_TRUST_PROXY", &cfg.HTTP.TrustProxy, &err)
	setBool("SATFINDER_AUTH_ENABLED", &cfg.Auth.Enabled, &err)
	setStr("SATFINDER_AUTH_TOKEN", &cfg.Auth.Token)
	setStr("SATFINDER_TLE_SOURCE_URL", &cfg.TLE.SourceURL)
	if v := os.Getenv("SATFINDER_TLE_EXTRA_URLS"); v != "" {
		cfg.TLE.ExtraURLs = strings.Split(v, ",")
	}
	setStr("SATFINDER_TLE_CACHE_DIR", &cfg.TLE.CacheDir)
	setDur("SATFINDER_TLE_MAX_AGE", &cfg.TLE.MaxAge, &err)
	setInt("SATFINDER_SEARCH_WORKERS", &cfg.Search.Workers, &err)
	setDur("SATFINDER_SEARCH_SUNLIT_STEP", &cfg.Search.SunlitStep, &err)
	setDur("SATFINDER_SEARCH_TRACK_STEP", &cfg.Search.TrackStep, &err)
	setStr("SATFINDER_SEARCH_EXCLUSION_PATTERN", &cfg.Search.ExclusionPattern)
	setBool("SATFINDER_SEARCH_STRICT_SUNLIT_WINDOW", &cfg.Search.StrictSunlitWindow, &err)
	setInt("SATFINDER_CACHE_SIZE", &cfg.Cache.Size, &err)
	setStr("SATFINDER_LOG_LEVEL", &cfg.Logging.Level)
	setStr("SATFINDER_LOG_FILE", &cfg.Logging.FilePath)
	setFloat("SATFINDER_OBSERVER_LAT", &cfg.Observer.LatitudeDeg, &err)
	setFloat("SATFINDER_OBSERVER_LON", &cfg.Observer.LongitudeDeg, &err)
	setFloat("SATFINDER_OBSERVER_ALT_M", &cfg.Observer.AltitudeM, &err)
	return err
}

func validate(cfg Config) error {
	if cfg.Auth.Enabled && cfg.Auth.Token == "" {
		return fmt.Errorf("auth.token is required when auth.enabled is true")
	}
	if cfg.TLE.MaxAge <= 0 {
		return fmt.Errorf("tle.max_age must be positive")
	}
	if cfg.Search.MinHeightKm > cfg.Search.MaxHeightKm {
		return fmt.Errorf("search.min_height_km must not exceed search.max_height_km")
	}
	return nil
}

func setStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool, errp *error) {
	v := os.Getenv(key)
	if v == "" || *errp != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errp = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = b
}

func setInt(key string, dst *int, errp *error) {
	v := os.Getenv(key)
	if v == "" || *errp != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errp = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func setFloat(key string, dst *float64, errp *error) {
	v := os.Getenv(key)
	if v == "" || *errp != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errp = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = f
}

func setDur(key string, dst *time.Duration, errp *error) {
	v := os.Getenv(key)
	if v == "" || *errp != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errp = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}
