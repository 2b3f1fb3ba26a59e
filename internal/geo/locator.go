// Package geo abstracts the platform location capability. A terminal has no
// geolocation API, so coordinates come from configuration or environment;
// their absence is the acquisition-failure path and callers must fall back.
package geo

import (
	"context"
	"errors"
	"os"
	"strconv"

	"reliefnet/internal/api"
)

// ErrUnavailable signals that no device position could be acquired. Callers
// are expected to proceed without coordinates, never to give up.
var ErrUnavailable = errors.New("geo: no device position available")

// Locator resolves the device's current position.
type Locator interface {
	Current(ctx context.Context) (api.Coordinates, error)
}

// Static returns a fixed position, used when coordinates are configured.
type Static struct {
	Coords api.Coordinates
}

func (s Static) Current(ctx context.Context) (api.Coordinates, error) {
	return s.Coords, nil
}

// None always fails acquisition.
type None struct{}

func (None) Current(ctx context.Context) (api.Coordinates, error) {
	return api.Coordinates{}, ErrUnavailable
}

// FromEnv reads RELIEFNET_LAT / RELIEFNET_LON. Both must parse for a position
// to be considered acquired.
func FromEnv() Locator {
	lat, err1 := strconv.ParseFloat(os.Getenv("RELIEFNET_LAT"), 64)
	lon, err2 := strconv.ParseFloat(os.Getenv("RELIEFNET_LON"), 64)
	if err1 != nil || err2 != nil {
		return None{}
	}
	return Static{Coords: api.Coordinates{Latitude: lat, Longitude: lon}}
}
