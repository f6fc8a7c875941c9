package config

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		DataPath: "./data",
		Server: Server{
			PrintRoutes: false,
			Port:        5255,
			BodyLimitMB: 600,
		},
		Database: Database{
			Path: "./musiclify.db",
		},
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Ingest: Ingest{
			AsciifyPaths:   false,
			CoverThumbSize: 300,
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "", // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{},
		},
	}
}
