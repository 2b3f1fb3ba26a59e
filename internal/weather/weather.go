// Package weather resolves the device position into current-conditions and
// forecast state, with a server-side default-location fallback when no
// position can be acquired.
package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"reliefnet/internal/api"
	"reliefnet/internal/geo"
)

const (
	cacheTTL    = 10 * time.Minute
	cacheSweep  = 30 * time.Minute
	fallbackKey = "default"
)

// Gateway is the slice of the remote gateway the resolver needs.
type Gateway interface {
	CurrentWeather(ctx context.Context, coords *api.Coordinates) (api.WeatherBundle, error)
}

// Resolver acquires coordinates, fetches weather keyed by them, and caches
// the result per coordinate bucket so page revisits don't refetch.
type Resolver struct {
	gateway Gateway
	locator geo.Locator
	cache   *gocache.Cache
	log     *zap.Logger
}

// NewResolver builds a resolver around the given location capability.
func NewResolver(gateway Gateway, locator geo.Locator, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		gateway: gateway,
		locator: locator,
		cache:   gocache.New(cacheTTL, cacheSweep),
		log:     log,
	}
}

// Resolve runs the full acquisition chain. Geolocation failure is not a
// fault: the request goes out without coordinates and the server answers for
// its default location, so the caller always ends up with either weather
// state or a remote fault — never a permanently unresolved view.
func (r *Resolver) Resolve(ctx context.Context) (api.WeatherBundle, error) {
	var coords *api.Coordinates
	if pos, err := r.locator.Current(ctx); err == nil {
		coords = &pos
	} else {
		r.log.Debug("geolocation unavailable, using server fallback", zap.Error(err))
	}

	key := cacheKey(coords)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(api.WeatherBundle), nil
	}

	bundle, err := r.gateway.CurrentWeather(ctx, coords)
	if err != nil {
		return api.WeatherBundle{}, err
	}
	r.cache.Set(key, bundle, gocache.DefaultExpiration)
	return bundle, nil
}

// cacheKey buckets coordinates to two decimals (~1km); weather does not vary
// meaningfully below that.
func cacheKey(coords *api.Coordinates) string {
	if coords == nil {
		return fallbackKey
	}
	return fmt.Sprintf("%.2f,%.2f", coords.Latitude, coords.Longitude)
}

// Icon is the coarse display category for a condition string.
type Icon int

const (
	IconSun Icon = iota
	IconCloud
	IconRain
)

// Glyph returns the terminal glyph for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconRain:
		return "🌧"
	case IconCloud:
		return "☁"
	}
	return "☀"
}

// IconFor maps a free-text condition to an icon by case-insensitive
// substring match, in fixed priority order: rain beats cloud/overcast beats
// the sun default. "Cloudy with rain showers" is therefore rain.
func IconFor(condition string) Icon {
	cond := strings.ToLower(condition)
	if strings.Contains(cond, "rain") {
		return IconRain
	}
	if strings.Contains(cond, "cloud") || strings.Contains(cond, "overcast") {
		return IconCloud
	}
	return IconSun
}

// forecast date layouts accepted from the server, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// DayLabel labels a forecast entry: the first is always "TODAY" regardless
// of its weekday, the rest carry the computed weekday short name. Unparsable
// dates fall back to the raw string.
func DayLabel(index int, date string) string {
	if index == 0 {
		return "TODAY"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return strings.ToUpper(t.Format("Mon"))
		}
	}
	return date
}
