package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// AssetPrefix is the URL path under which uploaded assets are served.
const AssetPrefix = "/assets/"

// prefetchLimit bounds concurrent image loads.
const prefetchLimit = 4

// ErrUnsupportedSource is returned for image sources the cache will not
// load: anything other than data URLs, uploaded assets, and http(s) URLs
// when remote fetching is enabled.
var ErrUnsupportedSource = errors.New("unsupported image source")

// AssetOpener opens an uploaded asset by file name.
type AssetOpener interface {
	Open(name string) (io.ReadCloser, error)
}

// ImageCache loads and decodes image sources once and keeps the result.
// Failed sources are remembered and not retried until Forget is called.
type ImageCache struct {
	assets AssetOpener
	client *http.Client

	mu     sync.RWMutex
	images map[string]image.Image
	failed map[string]error
}

// NewImageCache returns a cache resolving "/assets/" URLs through assets,
// which may be nil. Remote http(s) sources are fetched with client; a nil
// client disables remote fetching.
func NewImageCache(assets AssetOpener, client *http.Client) *ImageCache {
	return &ImageCache{
		assets: assets,
		client: client,
		images: make(map[string]image.Image),
		failed: make(map[string]error),
	}
}

// Get returns a previously loaded image.
func (c *ImageCache) Get(src string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[src]
	return img, ok
}

// Forget drops src so the next Prefetch loads it again.
func (c *ImageCache) Forget(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, src)
	delete(c.failed, src)
}

// Prefetch loads every source not yet cached, a few at a time. Load
// failures are logged and remembered; only context cancellation is
// returned.
func (c *ImageCache) Prefetch(ctx context.Context, srcs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)

	seen := make(map[string]bool, len(srcs))
	for _, src := range srcs {
		if src == "" || seen[src] || c.known(src) {
			continue
		}
		seen[src] = true
		g.Go(func() error {
			img, err := c.load(ctx, src)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("image load failed", "src", shorten(src), "error", err)
				c.mu.Lock()
				c.failed[src] = err
				c.mu.Unlock()
				return nil
			}
			c.mu.Lock()
			c.images[src] = img
			c.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (c *ImageCache) known(src string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.images[src]
	_, failed := c.failed[src]
	return ok || failed
}

func (c *ImageCache) load(ctx context.Context, src string) (image.Image, error) {
	r, err := c.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (c *ImageCache) open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err := decodeDataURL(src)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil

	case strings.HasPrefix(src, AssetPrefix):
		if c.assets == nil {
			return nil, errors.New("no asset store configured")
		}
		return c.assets.Open(strings.TrimPrefix(src, AssetPrefix))

	case c.client != nil && (strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse image url: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("build image request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
		}
		return resp.Body, nil

	default:
		return nil, ErrUnsupportedSource
	}
}

// decodeDataURL returns the payload of a base64 or plain data: URL.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return []byte(data), nil
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
