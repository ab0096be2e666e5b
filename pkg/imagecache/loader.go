package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/nodeshapes/pkg/cache"
	coded "github.com/matzehuels/nodeshapes/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second
	maxImageBytes  = 32 << 20
	maxImagePixels = 64 << 20
)

var (
	// ErrNotFound is returned when the image does not exist.
	ErrNotFound = errors.New("image not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// Loader fetches and decodes one image.
type Loader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, url string) (image.Image, error) { return f(ctx, url) }

// Decode decodes PNG, JPEG, GIF or WebP data. Images whose header declares
// more than maxImagePixels pixels are rejected before any pixel is decoded.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, coded.Wrap(coded.ErrCodeInvalidFormat, err, "decode image header")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, coded.New(coded.ErrCodeInvalidFormat, "image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, coded.Wrap(coded.ErrCodeInvalidFormat, err, "decode image")
	}
	return img, nil
}

// =============================================================================
// HTTP
// =============================================================================

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(l *HTTPLoader) {
		if d > 0 {
			l.client.Timeout = d
		}
	}
}

// WithStore keeps fetched bytes in store.
func WithStore(store cache.Cache) HTTPOption {
	return func(l *HTTPLoader) {
		if store != nil {
			l.store = store
		}
	}
}

// WithKeyer sets how store keys are derived from URLs.
func WithKeyer(k cache.Keyer) HTTPOption {
	return func(l *HTTPLoader) {
		if k != nil {
			l.keyer = k
		}
	}
}

// WithTTL sets how long stored bytes stay valid.
func WithTTL(ttl time.Duration) HTTPOption {
	return func(l *HTTPLoader) { l.ttl = ttl }
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(l *HTTPLoader) { l.headers = headers }
}

// HTTPLoader fetches images over HTTP(S). Requests are never retried.
type HTTPLoader struct {
	client  *http.Client
	store   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
}

// NewHTTPLoader creates an HTTP loader. Without WithStore nothing is kept
// between loads.
func NewHTTPLoader(opts ...HTTPOption) *HTTPLoader {
	l := &HTTPLoader{
		client: &http.Client{Timeout: defaultTimeout},
		store:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.DefaultImageTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches url, or reads its bytes from the store, and decodes them.
func (l *HTTPLoader) Load(ctx context.Context, url string) (image.Image, error) {
	data, err := cache.Fetch(ctx, l.store, l.keyer.ImageKey(url), l.ttl, func(ctx context.Context) ([]byte, error) {
		return l.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (l *HTTPLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, coded.Wrap(coded.ErrCodeInvalidInput, err, "image url %q", url)
	}
	for k, v := range l.headers {
		req.Header.Set(k, v)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	if len(data) > maxImageBytes {
		return nil, coded.New(coded.ErrCodeInvalidInput, "image larger than %d bytes", maxImageBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// =============================================================================
// Files
// =============================================================================

// FileLoader reads images from the local filesystem. It accepts plain paths
// and file:// URLs; relative paths are resolved against Root.
type FileLoader struct {
	Root string
}

// Load reads and decodes the file behind rawURL.
func (l FileLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (l FileLoader) resolve(rawURL string) (string, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", coded.Wrap(coded.ErrCodeInvalidInput, err, "image url %q", rawURL)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}
	return filepath.Clean(path), nil
}

// =============================================================================
// Dispatch
// =============================================================================

// MuxLoader sends http(s) URLs to HTTP and everything else to File.
type MuxLoader struct {
	HTTP Loader
	File Loader
}

// NewMuxLoader combines an HTTP and a file loader.
func NewMuxLoader(httpLoader, fileLoader Loader) *MuxLoader {
	return &MuxLoader{HTTP: httpLoader, File: fileLoader}
}

// Load dispatches on the URL scheme.
func (m *MuxLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if m.HTTP == nil {
			return nil, coded.New(coded.ErrCodeUnsupported, "no loader for %q", rawURL)
		}
		return m.HTTP.Load(ctx, rawURL)
	}
	if m.File == nil {
		return nil, coded.New(coded.ErrCodeUnsupported, "no loader for %q", rawURL)
	}
	return m.File.Load(ctx, rawURL)
}
