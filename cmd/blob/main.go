// Package main is the entry point for the blob scene.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/blobscene/internal/assets"
	"github.com/Faultbox/blobscene/internal/config"
	"github.com/Faultbox/blobscene/internal/engine/dispatch"
	"github.com/Faultbox/blobscene/internal/engine/text"
	"github.com/Faultbox/blobscene/internal/game"
	"github.com/Faultbox/blobscene/internal/game/states"
	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/logger"
	"github.com/Faultbox/blobscene/internal/preset"
	"github.com/Faultbox/blobscene/internal/remote"
	"github.com/Faultbox/blobscene/internal/transition"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Blob Scene ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("saving config", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", config.UserConfigPath()))
		return
	}

	if err := run(cfg); err != nil {
		logger.Error("scene error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("scene closed normally")
}

func run(cfg *config.Config) error {
	catalog, err := loadCatalog(cfg.Scene.PresetsFile)
	if err != nil {
		return err
	}
	logger.Info("presets loaded",
		zap.Int("count", catalog.Len()),
		zap.Strings("names", catalog.Names()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := dispatch.NewQueue()
	manager := assets.NewManager()
	manager.OnProgress = func(url string, loaded, total int) {
		logger.Debug("asset finished",
			zap.String("url", url),
			zap.Int("loaded", loaded),
			zap.Int("total", total))
	}
	manager.OnError = func(url string) {
		logger.Warn("asset failed", zap.String("url", url))
	}

	textures := assets.NewTextures(os.DirFS(cfg.Scene.GradientsDir), queue, manager, logger.Named("textures"))
	textures.MaxSize = cfg.Scene.MaxTextureSize

	w, err := world.New(catalog, textures, logger.Named("world"))
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	if cfg.Scene.PreloadTextures {
		textures.Preload(gradientIDs(catalog)...)
	}

	raster := text.Load(cfg.Scene.FontPath, text.DefaultPixelsPerEm, logger.Named("text"))
	defer raster.Close()

	g, err := game.New(game.Config{
		Title:      "Blob",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
		ShowFPS:    cfg.Graphics.ShowFPS,
		Detail:     cfg.Graphics.Detail,

		ScreenshotDir: cfg.Graphics.ScreenshotDir,
	}, w, manager, queue, raster, logger.Named("game"))
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	defer g.Close()

	if cfg.Scene.EnvMapURL != "" {
		env := assets.NewEnvMap(&http.Client{}, queue, manager, logger.Named("envmap"))
		env.Timeout = cfg.Scene.EnvTimeout
		env.Load(ctx, cfg.Scene.EnvMapURL, func(hdr *assets.HDR, err error) {
			if err == nil {
				g.SetEnvironment(hdr)
			}
		})
	}

	grp, gctx := errgroup.WithContext(ctx)
	if cfg.Remote.Enabled {
		srv := remote.NewServer(queue, func(dir transition.Direction) {
			if err := g.States().HandleInput(states.Step{Direction: dir}); err != nil {
				logger.Warn("remote input failed", zap.Error(err))
			}
		}, logger.Named("remote"))
		publish := func(transition.State) { srv.Publish(w.Snapshot()) }
		publish(w.Controller.State())
		w.Controller.OnStart(publish)
		w.Controller.OnCommit(publish)
		grp.Go(func() error {
			return srv.Run(gctx, cfg.Remote.Addr)
		})
	}

	// The loop owns the GL context and stays on the main goroutine.
	loopErr := g.Run(gctx)
	stop()

	hits, misses := textures.CacheStats()
	logger.Debug("texture cache", zap.Int("hits", hits), zap.Int("misses", misses))
	if err := grp.Wait(); err != nil {
		logger.Error("remote server stopped", zap.Error(err))
		if loopErr == nil {
			return err
		}
	}
	return loopErr
}

func loadCatalog(path string) (*preset.Catalog, error) {
	if path == "" {
		return preset.Default(), nil
	}
	catalog, err := preset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading presets from %s: %w", path, err)
	}
	return catalog, nil
}

func gradientIDs(catalog *preset.Catalog) []string {
	var ids []string
	seen := make(map[string]bool)
	for i := 0; i < catalog.Len(); i++ {
		m := catalog.At(i).Params.Map
		if m == nil || seen[*m] {
			continue
		}
		seen[*m] = true
		ids = append(ids, *m)
	}
	return ids
}
