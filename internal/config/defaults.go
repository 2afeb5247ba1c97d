package config

import _ "embed"

//go:embed defaults/tileworld.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hardcoded configuration, used if the embedded YAML
// cannot be parsed.
func Default() Config {
	return Config{
		Backend:  BackendWindow,
		LogLevel: "info",
		LogFile:  "tileworld.log",
		Window: WindowConfig{
			Title:  "tileworld",
			Width:  800,
			Height: 600,
		},
		Render: RenderConfig{
			Mode:        ModeViewport,
			Background:  "#FFFFFF",
			FallbackFPS: 60,
		},
		Viewport: ViewportConfig{
			Zoom:    1.0,
			CenterX: -1,
			CenterY: -1,
		},
		World: WorldConfig{
			GroundRow: 3,
		},
		Assets: AssetsConfig{
			Sprites: "sprites",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "~/.tileworld/runs.db",
		},
	}
}

