package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	hdrimage "github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/engine/dispatch"
)

// DefaultEnvMapURL is the studio HDR used for reflections.
const DefaultEnvMapURL = "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/studio_small_08_1k.hdr"

// Limits on downloaded environment maps.
const (
	DefaultMaxHDRBytes = 64 << 20
	MaxHDRSide         = 16384
	MaxHDRPixels       = 8192 * 4096
)

var (
	// ErrNotHDR is returned for data the Radiance decoder rejects.
	ErrNotHDR = errors.New("not a Radiance HDR image")

	// ErrHDRTooLarge is returned for bodies or images over the limits.
	ErrHDRTooLarge = errors.New("environment map too large")
)

// HDR is a decoded equirectangular environment map. Pix holds linear RGB
// triplets, top row first.
type HDR struct {
	Width  int
	Height int
	Pix    []float32
}

// At returns the linear color at x, y.
func (h *HDR) At(x, y int) (r, g, b float32) {
	i := (y*h.Width + x) * 3
	return h.Pix[i], h.Pix[i+1], h.Pix[i+2]
}

// Average returns the mean color of the map, used as the ambient term.
func (h *HDR) Average() (r, g, b float32) {
	n := h.Width * h.Height
	if n == 0 {
		return 0, 0, 0
	}
	var sr, sg, sb float64
	for i := 0; i < len(h.Pix); i += 3 {
		sr += float64(h.Pix[i])
		sg += float64(h.Pix[i+1])
		sb += float64(h.Pix[i+2])
	}
	return float32(sr / float64(n)), float32(sg / float64(n)), float32(sb / float64(n))
}

// EnvMap fetches the environment map over HTTP.
type EnvMap struct {
	client  *http.Client
	queue   *dispatch.Queue
	manager *Manager
	log     *zap.Logger

	Timeout  time.Duration
	MaxBytes int64
}

// NewEnvMap creates a fetcher. client defaults to http.DefaultClient.
func NewEnvMap(client *http.Client, queue *dispatch.Queue, manager *Manager, log *zap.Logger) *EnvMap {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EnvMap{
		client:   client,
		queue:    queue,
		manager:  manager,
		log:      log,
		Timeout:  30 * time.Second,
		MaxBytes: DefaultMaxHDRBytes,
	}
}

// Load fetches url in the background and calls done on the loop. A failed
// load is reported to done and the manager; the scene renders without it.
func (e *EnvMap) Load(ctx context.Context, url string, done func(*HDR, error)) {
	if e.manager != nil {
		e.manager.ItemStart(url)
	}
	go func() {
		hdr, err := e.Fetch(ctx, url)
		e.queue.Post(func() {
			if err != nil {
				e.log.Warn("environment map unavailable", zap.String("url", url), zap.Error(err))
				if e.manager != nil {
					e.manager.ItemError(url)
				}
			} else {
				e.log.Info("environment map loaded",
					zap.String("url", url),
					zap.Int("width", hdr.Width),
					zap.Int("height", hdr.Height))
			}
			if e.manager != nil {
				e.manager.ItemEnd(url)
			}
			if done != nil {
				done(hdr, err)
			}
		})
	}()
}

// Fetch downloads and decodes url. Bodies over MaxBytes are rejected.
func (e *EnvMap) Fetch(ctx context.Context, url string) (*HDR, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxHDRBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrHDRTooLarge, limit)
	}
	return DecodeHDR(bytes.NewReader(data))
}

// DecodeHDR decodes a Radiance RGBE image. The header is checked against
// MaxHDRSide and MaxHDRPixels before any pixel buffer is allocated.
func DecodeHDR(r io.Reader) (img *HDR, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := rgbe.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotHDR, err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	// The decoder sees untrusted network data.
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("decoding environment map: %v", r)
		}
	}()
	decoded, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding environment map: %w", err)
	}
	src, ok := decoded.(hdrimage.Image)
	if !ok {
		return nil, ErrNotHDR
	}

	b := src.Bounds()
	img = &HDR{Width: b.Dx(), Height: b.Dy(), Pix: make([]float32, 0, b.Dx()*b.Dy()*3)}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.HDRAt(x, y).HDRRGBA()
			img.Pix = append(img.Pix, float32(r), float32(g), float32(bl))
		}
	}
	return img, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: bad dimensions %dx%d", ErrNotHDR, width, height)
	}
	if width > MaxHDRSide || height > MaxHDRSide || width > MaxHDRPixels/height {
		return fmt.Errorf("%w: %dx%d", ErrHDRTooLarge, width, height)
	}
	return nil
}
