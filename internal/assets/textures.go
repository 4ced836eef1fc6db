package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // PNG decoder registration
	"io/fs"
	"path"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/engine/dispatch"
)

// DefaultMaxTextureSize bounds gradient textures; larger images are scaled down.
const DefaultMaxTextureSize = 1024

// Textures loads gradient maps named by preset identifiers from <id>.png.
// Decoding happens off the loop; completions are posted to the loop queue.
type Textures struct {
	fsys    fs.FS
	queue   *dispatch.Queue
	manager *Manager
	cache   *Cache[*blob.Texture]
	log     *zap.Logger

	MaxSize int
}

// NewTextures creates a loader reading from fsys. manager may be nil.
func NewTextures(fsys fs.FS, queue *dispatch.Queue, manager *Manager, log *zap.Logger) *Textures {
	if log == nil {
		log = zap.NewNop()
	}
	return &Textures{
		fsys:    fsys,
		queue:   queue,
		manager: manager,
		cache:   NewCache[*blob.Texture](),
		log:     log,
		MaxSize: DefaultMaxTextureSize,
	}
}

// FileName returns the file a texture identifier resolves to.
func FileName(id string) string {
	return path.Clean(id) + ".png"
}

// LoadTexture resolves id and calls done on the loop. Cached textures
// complete immediately.
func (t *Textures) LoadTexture(id string, done func(*blob.Texture, error)) {
	if tex, ok := t.cache.Get(id); ok {
		if done != nil {
			done(tex, nil)
		}
		return
	}

	name := FileName(id)
	if t.manager != nil {
		t.manager.ItemStart(name)
	}

	go func() {
		tex, err := t.load(id, name)
		t.queue.Post(func() {
			if err != nil {
				t.log.Warn("texture load failed", zap.String("file", name), zap.Error(err))
				if t.manager != nil {
					t.manager.ItemError(name)
				}
			} else {
				t.cache.Set(id, tex)
				t.log.Debug("texture loaded",
					zap.String("file", name),
					zap.Int("width", tex.Image.Bounds().Dx()),
					zap.Int("height", tex.Image.Bounds().Dy()))
			}
			if t.manager != nil {
				t.manager.ItemEnd(name)
			}
			if done != nil {
				done(tex, err)
			}
		})
	}()
}

// Preload starts loading every id so the loading screen waits for them.
func (t *Textures) Preload(ids ...string) {
	for _, id := range ids {
		t.LoadTexture(id, nil)
	}
}

// Cached returns a previously loaded texture.
func (t *Textures) Cached(id string) (*blob.Texture, bool) {
	return t.cache.Get(id)
}

// CacheStats returns cache hits and misses across LoadTexture and Cached.
func (t *Textures) CacheStats() (hits, misses int) {
	return t.cache.Stats()
}

func (t *Textures) load(id, name string) (*blob.Texture, error) {
	data, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	t.log.Debug("decoded texture", zap.String("file", name), zap.String("format", format))
	return &blob.Texture{ID: id, Image: ToRGBA(img, t.MaxSize)}, nil
}

// ToRGBA converts img to RGBA at the origin, scaling it down with
// Catmull-Rom when either side exceeds maxSize. maxSize <= 0 disables scaling.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && src.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst
}
