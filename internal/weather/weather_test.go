package weather

import (
	"context"
	"errors"
	"testing"

	"reliefnet/internal/api"
	"reliefnet/internal/geo"
)

// fakeGateway records the coordinates it was called with.
type fakeGateway struct {
	calls  int
	coords []*api.Coordinates
	bundle api.WeatherBundle
	err    error
}

func (f *fakeGateway) CurrentWeather(ctx context.Context, coords *api.Coordinates) (api.WeatherBundle, error) {
	f.calls++
	f.coords = append(f.coords, coords)
	if f.err != nil {
		return api.WeatherBundle{}, f.err
	}
	return f.bundle, nil
}

type failingLocator struct{}

func (failingLocator) Current(ctx context.Context) (api.Coordinates, error) {
	return api.Coordinates{}, errors.New("permission denied")
}

func bundle(location string) api.WeatherBundle {
	return api.WeatherBundle{
		Current: api.Conditions{Location: location, Temp: 31, Conditions: "Clear", Windspeed: 9},
		Forecast: []api.ForecastDay{
			{Date: "2026-08-28", Temp: 31, Conditions: "Clear"},
			{Date: "2026-08-29", Temp: 29, Conditions: "Cloudy"},
		},
	}
}

// =============================================================================
// RESOLUTION + FALLBACK
// =============================================================================

func TestResolve_WithDevicePosition(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{bundle: bundle("Lahore")}
	loc := geo.Static{Coords: api.Coordinates{Latitude: 31.52, Longitude: 74.36}}
	r := NewResolver(gw, loc, nil)

	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Current.Location != "Lahore" {
		t.Errorf("Location = %q", got.Current.Location)
	}
	if gw.coords[0] == nil || gw.coords[0].Latitude != 31.52 {
		t.Errorf("gateway called with %v, want device coords", gw.coords[0])
	}
}

func TestResolve_GeolocationDeniedStillResolves(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{bundle: bundle("Islamabad")}
	r := NewResolver(gw, failingLocator{}, nil)

	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("fallback path must still resolve, got %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", gw.calls)
	}
	if gw.coords[0] != nil {
		t.Errorf("expected no coordinates on fallback, got %v", gw.coords[0])
	}
	if got.Current.Location != "Islamabad" {
		t.Errorf("fallback payload not surfaced: %q", got.Current.Location)
	}
}

func TestResolve_CachesPerCoordinateBucket(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{bundle: bundle("Lahore")}
	loc := geo.Static{Coords: api.Coordinates{Latitude: 31.52, Longitude: 74.36}}
	r := NewResolver(gw, loc, nil)

	if _, err := r.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want 1 (second hit served from cache)", gw.calls)
	}
}

func TestResolve_FaultIsNotCached(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: &api.Fault{Kind: api.FaultRemote, Message: "upstream down"}}
	r := NewResolver(gw, geo.None{}, nil)

	if _, err := r.Resolve(context.Background()); err == nil {
		t.Fatal("expected fault")
	}
	gw.err = nil
	gw.bundle = bundle("Karachi")
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("retry after fault failed: %v", err)
	}
	if got.Current.Location != "Karachi" {
		t.Errorf("Location = %q", got.Current.Location)
	}
}

// =============================================================================
// CONDITION → ICON CLASSIFICATION
// =============================================================================

func TestIconFor_PriorityOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		condition string
		want      Icon
	}{
		{"Light rain", IconRain},
		{"RAIN SHOWERS", IconRain},
		{"Cloudy with rain showers", IconRain}, // rain is checked before cloud
		{"Partly cloudy", IconCloud},
		{"Overcast", IconCloud},
		{"Clear skies", IconSun},
		{"", IconSun},
	}
	for _, tc := range cases {
		if got := IconFor(tc.condition); got != tc.want {
			t.Errorf("IconFor(%q) = %v, want %v", tc.condition, got, tc.want)
		}
	}
}

// =============================================================================
// FORECAST DAY LABELS
// =============================================================================

func TestDayLabel_FirstEntryIsToday(t *testing.T) {
	t.Parallel()

	// 2026-08-28 is a Friday, but index 0 is always TODAY.
	if got := DayLabel(0, "2026-08-28"); got != "TODAY" {
		t.Errorf("DayLabel(0) = %q", got)
	}
}

func TestDayLabel_WeekdayShortNames(t *testing.T) {
	t.Parallel()

	if got := DayLabel(1, "2026-08-29"); got != "SAT" {
		t.Errorf("DayLabel(1, 2026-08-29) = %q, want SAT", got)
	}
	if got := DayLabel(2, "2026-08-30"); got != "SUN" {
		t.Errorf("DayLabel(2, 2026-08-30) = %q, want SUN", got)
	}
	// Unparsable dates fall back to the raw string.
	if got := DayLabel(3, "soon"); got != "soon" {
		t.Errorf("DayLabel(3, soon) = %q", got)
	}
}
