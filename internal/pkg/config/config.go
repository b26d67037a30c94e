package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Map       MapConfig       `mapstructure:"map"`
	Draw      DrawConfig      `mapstructure:"draw"`
	Timeline  TimelineConfig  `mapstructure:"timeline"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// MapConfig describes the base map every new session starts from.
type MapConfig struct {
	CenterLat       float64 `mapstructure:"center_lat"`
	CenterLon       float64 `mapstructure:"center_lon"`
	Zoom            int     `mapstructure:"zoom"`
	DefaultZoom     int     `mapstructure:"default_zoom"`
	FallbackZoom    int     `mapstructure:"fallback_zoom"`
	TileURL         string  `mapstructure:"tile_url"`
	TileAttribution string  `mapstructure:"tile_attribution"`
	MiniMap         bool    `mapstructure:"minimap"`
}

// DrawConfig styles shapes completed with the drawing toolbar.
type DrawConfig struct {
	Color       string  `mapstructure:"color"`
	Weight      float64 `mapstructure:"weight"`
	ArrowSizePx int     `mapstructure:"arrow_size_px"`
}

type TimelineConfig struct {
	StepSeconds int `mapstructure:"step_seconds"`
}

type SnapshotConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("map.center_lat", 43.263)
	v.SetDefault("map.center_lon", -2.935)
	v.SetDefault("map.zoom", 13)
	v.SetDefault("map.default_zoom", 15)
	v.SetDefault("map.fallback_zoom", 10)
	v.SetDefault("map.tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.tile_attribution", "© OpenStreetMap contributors")
	v.SetDefault("map.minimap", false)
	v.SetDefault("draw.color", "#3388ff")
	v.SetDefault("draw.weight", 4)
	v.SetDefault("draw.arrow_size_px", 16)
	v.SetDefault("timeline.step_seconds", 1)
	v.SetDefault("snapshot.ttl_seconds", 300)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CASEMAP_MAP_CENTER_LAT → map.center_lat
	v.SetEnvPrefix("CASEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		errs = append(errs, fmt.Sprintf("map.center_lat must be -90..90, got %g", c.Map.CenterLat))
	}
	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, fmt.Sprintf("map.center_lon must be -180..180, got %g", c.Map.CenterLon))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-22, got %d", c.Map.Zoom))
	}
	if c.Map.TileURL == "" {
		errs = append(errs, "map.tile_url is required")
	}
	if c.Draw.ArrowSizePx <= 0 {
		errs = append(errs, "draw.arrow_size_px must be positive")
	}
	if c.Timeline.StepSeconds <= 0 {
		errs = append(errs, "timeline.step_seconds must be positive")
	}
	if c.Snapshot.TTLSeconds <= 0 {
		errs = append(errs, "snapshot.ttl_seconds must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
