package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultBaseTileURL is the basemap drawn under any custom tile layer.
const DefaultBaseTileURL = "https://{1-4}.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}{r}.png"

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:                8080,
			ShutdownTimeoutSecs: 10,
			StaticDir:           "./static",
		},
		Feed: FeedConfig{
			TimeoutMS:      10000,
			RefreshMinSecs: 10,
		},
		Buffer: BufferConfig{MaxSamples: 2000},
		Map: MapConfig{
			CenterLat:  37.9908,
			CenterLon:  23.6682,
			ZoomLevel:  16,
			Projection: "EPSG:3857",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned as they are. The result is not validated, so that
// flag overrides can be applied before Validate.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section of cfg.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Feed.URL != "" && cfg.Feed.Kind == "" {
		return errors.New("invalid config: feed.kind is required when feed.url is set")
	}
	return nil
}
