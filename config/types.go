package config

// Feed kinds accepted in FeedConfig.Kind.
const (
	FeedSamples  = "samples"
	FeedGTFSRT   = "gtfsrt"
	FeedSiriJSON = "siri_json"
	FeedSiriXML  = "siri_xml"
)

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port                int    `yaml:"port" validate:"gt=0,lte=65535"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" validate:"gte=0"`
	StaticDir           string `yaml:"static_dir"`
}

// FeedConfig selects the upstream vehicle feed
type FeedConfig struct {
	Kind           string `yaml:"kind" validate:"omitempty,oneof=samples gtfsrt siri_json siri_xml"`
	URL            string `yaml:"url" validate:"omitempty,url"`
	TimeoutMS      int    `yaml:"timeout_ms" validate:"gte=0"`
	RefreshMinSecs int    `yaml:"refresh_min_secs" validate:"gt=0"`
}

// BufferConfig bounds the retained sample window
type BufferConfig struct {
	MaxSamples int `yaml:"max_samples" validate:"gt=0"`
}

// MapConfig is the initial map view handed to the browser
type MapConfig struct {
	CenterLat  float64 `yaml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLon  float64 `yaml:"center_lon" validate:"gte=-180,lte=180"`
	ZoomLevel  int     `yaml:"zoom_level" validate:"gte=0,lte=24"`
	TileURL    string  `yaml:"tile_url"`
	Projection string  `yaml:"projection" validate:"oneof=EPSG:3857 EPSG:4326"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Feed   FeedConfig   `yaml:"feed"`
	Buffer BufferConfig `yaml:"buffer"`
	Map    MapConfig    `yaml:"map"`
}
