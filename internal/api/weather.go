package api

import (
	"context"
	"net/url"
	"strconv"
)

// CurrentWeather fetches current conditions and the multi-day forecast.
// A nil coords sends no lat/lon and lets the server fall back to its default
// location, so a denied or unsupported geolocation still yields weather.
func (c *Client) CurrentWeather(ctx context.Context, coords *Coordinates) (WeatherBundle, error) {
	var query url.Values
	if coords != nil {
		query = url.Values{}
		query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	}
	var bundle WeatherBundle
	if err := c.get(ctx, "/users/currentWeather", query, &bundle); err != nil {
		return WeatherBundle{}, err
	}
	return bundle, nil
}
