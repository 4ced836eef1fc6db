package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagPresets    = flag.String("presets", "", "Path to a YAML preset list")
	flagRemote     = flag.Bool("remote", false, "Enable the remote control server")
	flagRemoteAddr = flag.String("remote-addr", "", "Remote control listen address")
	flagSave       = flag.Bool("save-config", false, "Write the effective config to the user config file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagPresets != "" {
		cfg.Scene.PresetsFile = *flagPresets
	}
	if *flagRemote {
		cfg.Remote.Enabled = true
	}
	if *flagRemoteAddr != "" {
		cfg.Remote.Enabled = true
		cfg.Remote.Addr = *flagRemoteAddr
	}
}
