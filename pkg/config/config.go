// Package config holds the host settings of nodeshapes and the lookup
// function the renderer reads them through.
//
// Settings are read from a TOML file:
//
//	class_prefix = "graph"
//	default_node_color = "#4477aa"
//	free_style = false
//	image_cache = "redis://localhost:6379/0"
//	image_timeout = "5s"
//
// Missing keys keep their defaults; unknown keys are an error so that typos
// do not go unnoticed.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/render"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default output width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = 600

	// DefaultBackground is the default PNG background.
	DefaultBackground = "#ffffff"

	// DefaultImageTimeout bounds one overlay image download.
	DefaultImageTimeout = 10 * time.Second

	// maxDimension guards against accidental multi-gigabyte rasters.
	maxDimension = 16384
)

// Image cache backends.
const (
	ImageCacheFile = "file"
	ImageCacheNone = "none"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// =============================================================================
// Settings
// =============================================================================

// Settings is the full host configuration. The first group of fields is
// what the renderer itself reads; the rest configures the demo host.
type Settings struct {
	Prefix           string `toml:"prefix"`
	DefaultNodeColor string `toml:"default_node_color"`
	DefaultNodeType  string `toml:"default_node_type"`
	FreeStyle        bool   `toml:"free_style"`
	ClassPrefix      string `toml:"class_prefix"`
	XMLNS            string `toml:"xmlns"`
	ClipPathBase     string `toml:"clip_path_base"`

	Background string `toml:"background"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`

	// MaxImages bounds the overlay image cache; 0 keeps every image.
	MaxImages int `toml:"max_images"`

	// ImageCache selects where downloaded image bytes are kept: "" or
	// "file" for the user cache directory, "none", or a redis:// URL.
	ImageCache   string        `toml:"image_cache"`
	ImageTimeout time.Duration `toml:"image_timeout"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		DefaultNodeColor: render.DefaultSetting(render.KeyDefaultNodeColor).(string),
		DefaultNodeType:  render.DefaultSetting(render.KeyDefaultNodeType).(string),
		ClassPrefix:      render.DefaultSetting(render.KeyClassPrefix).(string),
		XMLNS:            render.DefaultSetting(render.KeyXMLNS).(string),
		Background:       DefaultBackground,
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		ImageTimeout:     DefaultImageTimeout,
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if os.IsNotExist(err) {
		return s, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
	}
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks value ranges and the syntax of colours and cache URLs.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.Width > maxDimension || s.Height > maxDimension {
		return errors.New(errors.ErrCodeInvalidConfig, "size must be between 1x1 and %dx%d, got %dx%d", maxDimension, maxDimension, s.Width, s.Height)
	}
	if s.MaxImages < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_images must not be negative")
	}
	if s.ImageTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "image_timeout must not be negative")
	}
	for key, c := range map[string]string{"default_node_color": s.DefaultNodeColor, "background": s.Background} {
		if c == "" {
			continue
		}
		if _, err := surface.ParseColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
		}
	}
	if s.DefaultNodeType != "" {
		if err := errors.ValidateShapeName(s.DefaultNodeType); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "default_node_type")
		}
	}
	switch {
	case s.ImageCache == "", s.ImageCache == ImageCacheFile, s.ImageCache == ImageCacheNone:
	case strings.HasPrefix(s.ImageCache, "redis://"), strings.HasPrefix(s.ImageCache, "rediss://"):
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "image_cache must be %q, %q or a redis:// URL, got %q", ImageCacheFile, ImageCacheNone, s.ImageCache)
	}
	return nil
}

// Lookup returns the setting stored under a renderer key, or nil for keys
// it does not know. Its method value is a render.Settings.
func (s Settings) Lookup(key string) any {
	switch key {
	case render.KeyPrefix:
		return s.Prefix
	case render.KeyDefaultNodeColor:
		return s.DefaultNodeColor
	case render.KeyDefaultNodeType:
		return s.DefaultNodeType
	case render.KeyFreeStyle:
		return s.FreeStyle
	case render.KeyClassPrefix:
		return s.ClassPrefix
	case render.KeyXMLNS:
		return s.XMLNS
	case render.KeyClipPathBase:
		return s.ClipPathBase
	}
	return nil
}

// Render returns the renderer view of s.
func (s Settings) Render() render.Settings { return s.Lookup }

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be svg or png)", f)
		}
	}
	return nil
}

// String summarizes the settings for debug logs.
func (s Settings) String() string {
	return fmt.Sprintf("%dx%d prefix=%q class=%q default=%s/%s free=%t images=%d cache=%q",
		s.Width, s.Height, s.Prefix, s.ClassPrefix, s.DefaultNodeType, s.DefaultNodeColor, s.FreeStyle, s.MaxImages, s.ImageCache)
}
