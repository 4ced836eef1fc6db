// Package config handles scene configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all scene settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Remote   RemoteConfig   `yaml:"remote"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Samples    int  `yaml:"samples"` // MSAA samples, 0 disables
	Detail     int  `yaml:"detail"`  // Icosphere subdivision level
	ShowFPS    bool `yaml:"show_fps"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig holds asset locations.
type SceneConfig struct {
	// PresetsFile is a YAML preset list. Empty uses the built-in presets.
	PresetsFile    string `yaml:"presets_file"`
	GradientsDir   string `yaml:"gradients_dir"`
	MaxTextureSize int    `yaml:"max_texture_size"`
	// PreloadTextures loads every gradient map before the scene starts
	// instead of on the first transition to it.
	PreloadTextures bool          `yaml:"preload_textures"`
	EnvMapURL       string        `yaml:"env_map_url"` // Empty skips the environment map
	EnvTimeout      time.Duration `yaml:"env_timeout"`
	FontPath        string        `yaml:"font_path"` // Empty uses Go Bold
}

// RemoteConfig holds the remote control server settings.
type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			Detail:     50,
			ShowFPS:    false,

			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			PresetsFile:     "",
			GradientsDir:    "assets/gradients",
			MaxTextureSize:  1024,
			PreloadTextures: false,
			EnvMapURL:       "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/studio_small_08_1k.hdr",
			EnvTimeout:      30 * time.Second,
			FontPath:        "",
		},
		Remote: RemoteConfig{
			Enabled: false,
			Addr:    "127.0.0.1:8787",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the scene cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Samples < 0 || c.Graphics.Samples > 16 {
		errs = append(errs, fmt.Errorf("graphics: samples must be in [0, 16], got %d", c.Graphics.Samples))
	}
	if c.Graphics.Detail < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative detail %d", c.Graphics.Detail))
	}
	if c.Scene.EnvTimeout < 0 {
		errs = append(errs, fmt.Errorf("scene: negative env_timeout %s", c.Scene.EnvTimeout))
	}
	if c.Remote.Enabled && c.Remote.Addr == "" {
		errs = append(errs, errors.New("remote: addr is required when enabled"))
	}
	return errors.Join(errs...)
}
