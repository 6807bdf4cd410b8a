package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"googlemaps.github.io/maps"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. WAYPOINT_HTTP_PORT.
const EnvPrefix = "WAYPOINT"

// DefaultMapCenter is where the map opens before any marker is selected.
const DefaultMapCenter = "73.22082129382729,-128.66182587092885"

// Config holds the configuration settings for the waypoint service.
type Config struct {
	Env            string         // Env is the current environment: local, development, production.
	HTTPPort       int            // HTTPPort serves the browser API.
	MonitoringPort int            // MonitoringPort serves /healthz and /metrics.
	Remote         RemoteConfig   // Remote selects and tunes the marker document store.
	Postgres       PostgresConfig // Postgres is used when Remote.Type is "postgres".
	PrefsPath      string         // PrefsPath is the SQLite file keeping the remembered access code.
	Map            MapConfig      // Map holds viewport defaults.
	ConfirmDelete  bool           // ConfirmDelete asks the user before a marker is deleted.
	Graylog        GraylogConfig  // Graylog enables GELF log shipping.
}

// RemoteConfig configures the remote marker store.
type RemoteConfig struct {
	Type        string
	URLTemplate string
	Timeout     time.Duration
	RateLimit   int
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     int    // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MapConfig holds the initial viewport and zoom limits.
type MapConfig struct {
	Center      models.Position
	DefaultZoom int
	FocusZoom   int
	MinZoom     int
	MaxZoom     int
}

type GraylogConfig struct {
	Enabled bool
	Address string
}

var defaults = map[string]any{
	"env":                 "production",
	"http.port":           "8000",
	"monitoring.port":     "8080",
	"remote.type":         "firebase",
	"remote.url_template": "https://interactive-event-{code}-default-rtdb.europe-west1.firebasedatabase.app/markers.json",
	"remote.timeout":      "10s",
	"remote.rate_limit":   "0",
	"postgres.host":       "localhost",
	"postgres.port":       "5432",
	"postgres.user":       "postgres",
	"postgres.password":   "",
	"postgres.db_name":    "waypoint",
	"prefs.path":          "waypoint.db",
	"map.center":          DefaultMapCenter,
	"map.default_zoom":    "6",
	"map.focus_zoom":      "7",
	"map.min_zoom":        "2",
	"map.max_zoom":        "7",
	"ui.confirm_delete":   "false",
	"graylog.enabled":     "false",
	"graylog.address":     "localhost:12201",
}

// MustLoad reads .env, the optional file named by WAYPOINT_CONFIG and the
// environment. It panics on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv(EnvPrefix + "_CONFIG"))
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	return cfg
}

// Load builds a Config from defaults, the config file at path (skipped when
// empty) and WAYPOINT_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	p := parser{v: v}
	cfg := &Config{
		Env:            v.GetString("env"),
		HTTPPort:       p.int("http.port"),
		MonitoringPort: p.int("monitoring.port"),
		Remote: RemoteConfig{
			Type:        v.GetString("remote.type"),
			URLTemplate: v.GetString("remote.url_template"),
			Timeout:     p.duration("remote.timeout"),
			RateLimit:   p.int("remote.rate_limit"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     p.int("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
		PrefsPath: v.GetString("prefs.path"),
		Map: MapConfig{
			Center:      p.latLng("map.center"),
			DefaultZoom: p.int("map.default_zoom"),
			FocusZoom:   p.int("map.focus_zoom"),
			MinZoom:     p.int("map.min_zoom"),
			MaxZoom:     p.int("map.max_zoom"),
		},
		ConfirmDelete: p.bool("ui.confirm_delete"),
		Graylog: GraylogConfig{
			Enabled: p.bool("graylog.enabled"),
			Address: v.GetString("graylog.address"),
		},
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if cfg.Map.MinZoom > cfg.Map.MaxZoom {
		return nil, fmt.Errorf("map.min_zoom %d is greater than map.max_zoom %d", cfg.Map.MinZoom, cfg.Map.MaxZoom)
	}

	return cfg, nil
}

// parser converts raw values and collects every conversion error.
type parser struct {
	v    *viper.Viper
	errs []error
}

func (p *parser) int(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer: %w", key, err))
	}
	return n
}

func (p *parser) bool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a boolean: %w", key, err))
	}
	return b
}

func (p *parser) duration(key string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a duration: %w", key, err))
	}
	return d
}

// latLng parses "lat,lng". maps.ParseLatLng panics without a comma, so that case is checked first.
func (p *parser) latLng(key string) models.Position {
	raw := strings.ReplaceAll(p.v.GetString(key), " ", "")
	if !strings.Contains(raw, ",") {
		p.errs = append(p.errs, fmt.Errorf("%s must be \"lat,lng\"", key))
		return models.Position{}
	}

	pos, err := maps.ParseLatLng(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be \"lat,lng\": %w", key, err))
	}
	return pos
}
