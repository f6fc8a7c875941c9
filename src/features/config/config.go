package config

// Config holds the application configuration.
type Config struct {
	DataPath string   `yaml:"dataPath" validate:"required"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Logger   Logger   `yaml:"logger"`
	Ingest   Ingest   `yaml:"ingest"`
	Telegram Telegram `yaml:"telegram"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
	// BodyLimitMB caps the size of a single multipart upload.
	BodyLimitMB int `yaml:"body_limit_mb"`
}

// Database holds the configuration for the database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Ingest holds the configuration for the album ingestion pipeline.
type Ingest struct {
	// AsciifyPaths transliterates path segments to ASCII before
	// sanitization. Off by default so Cyrillic names keep their spelling
	// on disk.
	AsciifyPaths bool `yaml:"asciify_paths"`
	// CoverThumbSize is the pixel size of generated cover thumbnails.
	// 0 disables thumbnail generation.
	CoverThumbSize int `yaml:"cover_thumb_size"`
}

// Telegram holds the configuration for the optional notification bot.
type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
}
