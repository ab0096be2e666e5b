package viewer

import (
	"context"
	"strings"

	"github.com/matzehuels/nodeshapes/pkg/cache"
	"github.com/matzehuels/nodeshapes/pkg/config"
	"github.com/matzehuels/nodeshapes/pkg/imagecache"
)

// OpenStore opens the byte store selected by the image_cache setting.
func OpenStore(ctx context.Context, settings config.Settings) (cache.Cache, error) {
	switch v := settings.ImageCache; {
	case v == config.ImageCacheNone:
		return cache.NewNullCache(), nil
	case isRedisURL(v):
		return cache.NewRedisCache(ctx, v)
	default:
		dir, err := cache.DefaultDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// keyScope prefixes image keys in shared stores.
const keyScope = "nodeshapes:"

// NewLoader builds the overlay image loader: HTTP downloads go through
// store, local paths are resolved against root.
func NewLoader(settings config.Settings, store cache.Cache, root string) imagecache.Loader {
	opts := []imagecache.HTTPOption{
		imagecache.WithStore(store),
		imagecache.WithTimeout(settings.ImageTimeout),
	}
	if isRedisURL(settings.ImageCache) {
		opts = append(opts, imagecache.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyScope)))
	}
	httpLoader := imagecache.NewHTTPLoader(opts...)
	return imagecache.NewMuxLoader(httpLoader, imagecache.FileLoader{Root: root})
}

func isRedisURL(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}
