// Package game implements the main loop and state management.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/assets"
	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/engine/debug"
	"github.com/Faultbox/blobscene/internal/engine/dispatch"
	"github.com/Faultbox/blobscene/internal/engine/geometry"
	"github.com/Faultbox/blobscene/internal/engine/input"
	"github.com/Faultbox/blobscene/internal/engine/renderer"
	"github.com/Faultbox/blobscene/internal/engine/text"
	"github.com/Faultbox/blobscene/internal/engine/window"
	"github.com/Faultbox/blobscene/internal/game/states"
	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/transition"
)

// Blob mesh defaults.
const (
	DefaultRadius = 2.5
	DefaultDetail = 50
)

// Config holds game configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int
	ShowFPS    bool

	// ScreenshotDir receives F12 captures.
	ScreenshotDir string

	// Detail is the icosphere subdivision level.
	Detail int
}

// Game is the main scene instance.
type Game struct {
	config  Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	blob     *renderer.BlobRenderer
	labels   *renderer.LabelRenderer
	overlay  *renderer.Overlay

	world  *world.World
	queue  *dispatch.Queue
	states *states.Manager

	screenshots    *debug.ScreenshotCapture
	wantScreenshot bool
}

// New opens the window and builds the GPU resources for w. The loading
// screen tracks am; queue is drained once per frame.
func New(cfg Config, w *world.World, am *assets.Manager, queue *dispatch.Queue, raster *text.Rasterizer, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Detail <= 0 {
		cfg.Detail = DefaultDetail
	}
	log.Info("initializing scene",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("presets", w.Catalog.Len()),
	)

	g := &Game{
		config: cfg,
		log:    log,
		world:  w,
		queue:  queue,
		states: states.NewManager(),
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
		Samples:    cfg.Samples,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
	}, log.Named("renderer"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	mesh := geometry.Icosphere(DefaultRadius, cfg.Detail)
	g.blob, err = renderer.NewBlobRenderer(mesh, log.Named("blob"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create blob renderer: %w", err)
	}

	g.labels, err = renderer.NewLabelRenderer(raster, w.Catalog.Names(), log.Named("labels"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create label renderer: %w", err)
	}

	g.overlay, err = renderer.NewOverlay(raster)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create loading overlay: %w", err)
	}

	g.input = input.New()
	g.screenshots = debug.NewScreenshotCapture(cfg.ScreenshotDir, "blob")
	g.states.Change(states.NewLoadingState(w, am, g, g.states, log.Named("states")))

	log.Info("scene initialized successfully")
	return g, nil
}

// States returns the state manager. Use it only on the loop.
func (g *Game) States() *states.Manager {
	return g.states
}

// SetEnvironment installs the environment map. Call it on the loop.
func (g *Game) SetEnvironment(hdr *assets.HDR) {
	g.blob.SetEnvironment(hdr)
}

// Run runs the loop until the window closes, Escape is pressed or ctx is
// cancelled.
func (g *Game) Run(ctx context.Context) error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting scene loop")

	for g.running {
		select {
		case <-ctx.Done():
			g.log.Info("scene loop cancelled", zap.Error(ctx.Err()))
			return nil
		default:
		}

		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			// Quit event received
			g.running = false
			break
		}
		for _, event := range g.input.Events() {
			if err := g.handleEvent(event); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
		}

		// 2. Run callbacks posted by loaders and remote clients
		g.queue.Drain()

		// 3. Advance animations, then the current state
		g.world.Step(dt)
		if err := g.states.Update(dt.Seconds()); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 4. Render
		g.renderer.Begin(g.world.Stage.Background)
		if err := g.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if g.wantScreenshot {
			g.wantScreenshot = false
			g.captureFrame()
		}

		// 5. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Int("tweens", g.world.Timeline.Active()))
			if g.config.ShowFPS {
				g.window.SetTitle(fmt.Sprintf("%s - %d FPS", g.config.Title, frameCount))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvent(event input.Event) error {
	switch event.Type {
	case input.EventWindowResize:
		width, height := g.window.DrawableSize()
		g.renderer.Resize(width, height)
		g.log.Debug("window resized",
			zap.Int("width", event.Width),
			zap.Int("height", event.Height),
			zap.Int("drawable_width", width),
			zap.Int("drawable_height", height))
	case input.EventWheel:
		return g.states.HandleInput(states.Wheel{DeltaY: float64(event.WheelY)})
	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			g.running = false
		case sdl.SCANCODE_F12:
			g.wantScreenshot = true
		case sdl.SCANCODE_RIGHT, sdl.SCANCODE_DOWN, sdl.SCANCODE_SPACE:
			return g.states.HandleInput(states.Step{Direction: transition.Forward})
		case sdl.SCANCODE_LEFT, sdl.SCANCODE_UP:
			return g.states.HandleInput(states.Step{Direction: transition.Backward})
		}
	}
	return nil
}

func (g *Game) captureFrame() {
	pixels, width, height := g.renderer.ReadPixels()
	label := g.world.Catalog.At(g.world.Controller.State().Current).Name
	path, err := g.screenshots.CaptureFromPixels(pixels, width, height, label)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// DrawScene draws the blob and the visible labels.
func (g *Game) DrawScene() {
	cam := g.renderer.Camera()
	g.blob.Draw(g.world.Material, g.world.Stage, cam)

	// Label size follows the window height in points, not pixels.
	_, height := g.window.GetSize()
	fontSize := float32(blob.LabelFontSize(height))
	g.labels.Draw(g.world.Labels, g.world.Text, cam, fontSize)
}

// DrawOverlay draws the loading screen over the frame.
func (g *Game) DrawOverlay(percent int, alpha float32) {
	width, height := g.renderer.Size()
	g.overlay.Draw(percent, alpha, width, height)
}

// Close cleans up scene resources.
func (g *Game) Close() {
	g.log.Info("closing scene")

	if err := g.states.Close(); err != nil {
		g.log.Warn("leaving state", zap.Error(err))
	}

	if g.overlay != nil {
		g.overlay.Close()
	}
	if g.labels != nil {
		g.labels.Close()
	}
	if g.blob != nil {
		g.blob.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
