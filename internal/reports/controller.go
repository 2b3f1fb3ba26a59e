// Package reports owns the mutable, searchable collection of disaster
// reports. The controller is single-writer: it is only ever touched from the
// UI event thread, so ordering discipline replaces locking.
package reports

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"reliefnet/internal/api"
)

// previewLimit is how many entries the collapsed activity view shows.
const previewLimit = 3

// Gateway is the slice of the remote gateway the controller needs.
type Gateway interface {
	OwnReports(ctx context.Context) ([]api.Report, error)
	AllReports(ctx context.Context) ([]api.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// Route selects which feed backs the collection.
type Route int

const (
	// RouteOwn loads the acting user's reports (citizen view).
	RouteOwn Route = iota
	// RouteCommunal loads the all-reports feed (NGO view).
	RouteCommunal
)

// Controller maintains the loaded collection, its filtered view, and the
// show-all toggle. Mutations are applied only after server acknowledgement;
// a fault leaves the collection untouched.
type Controller struct {
	gateway Gateway
	log     *zap.Logger

	all      []api.Report
	filtered []api.Report
	term     string
	showAll  bool
	loaded   bool
}

// NewController builds an empty controller.
func NewController(gateway Gateway, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{gateway: gateway, log: log}
}

// Load populates the collection from the role-dependent route and seeds the
// filtered view with the full collection.
func (c *Controller) Load(ctx context.Context, route Route) error {
	var (
		reports []api.Report
		err     error
	)
	switch route {
	case RouteCommunal:
		reports, err = c.gateway.AllReports(ctx)
	default:
		reports, err = c.gateway.OwnReports(ctx)
	}
	if err != nil {
		return err
	}
	c.all = reports
	c.loaded = true
	c.refilter()
	c.log.Debug("reports loaded", zap.Int("count", len(reports)))
	return nil
}

// Loaded reports whether an initial load has completed. An empty collection
// after a successful load is a valid terminal state, not a fault.
func (c *Controller) Loaded() bool { return c.loaded }

// Search recomputes the filtered view for term. Matching is case-insensitive
// over title and location name; an empty term yields the full collection.
// The filter is stable: results keep collection order.
func (c *Controller) Search(term string) {
	c.term = term
	c.refilter()
}

// Term returns the active search term.
func (c *Controller) Term() string { return c.term }

func (c *Controller) refilter() {
	needle := strings.ToLower(strings.TrimSpace(c.term))
	if needle == "" {
		c.filtered = c.all
		return
	}
	filtered := make([]api.Report, 0, len(c.all))
	for _, r := range c.all {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.LocationName), needle) {
			filtered = append(filtered, r)
		}
	}
	c.filtered = filtered
}

// Filtered returns the current filtered view.
func (c *Controller) Filtered() []api.Report { return c.filtered }

// All returns the full collection.
func (c *Controller) All() []api.Report { return c.all }

// Len returns the size of the full collection.
func (c *Controller) Len() int { return len(c.all) }

// ToggleShowAll flips the show-all/show-fewer view state.
func (c *Controller) ToggleShowAll() { c.showAll = !c.showAll }

// ShowingAll reports the current toggle state.
func (c *Controller) ShowingAll() bool { return c.showAll }

// Visible slices the filtered view per the toggle: the first three entries
// collapsed, everything expanded. Pure view slicing, never a refetch.
func (c *Controller) Visible() []api.Report {
	if c.showAll || len(c.filtered) <= previewLimit {
		return c.filtered
	}
	return c.filtered[:previewLimit]
}

// Delete removes one report. The caller is responsible for having confirmed
// the action; the local entry is removed only after the server acknowledges,
// so there is nothing to roll back on fault.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.gateway.DeleteReport(ctx, id); err != nil {
		return err
	}
	kept := c.all[:0:0]
	for _, r := range c.all {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	c.all = kept
	c.refilter()
	c.log.Debug("report deleted", zap.String("id", id))
	return nil
}

// ApplyUpdate syncs a locally edited report back into the collection in
// place, keeping its position. Unknown ids are ignored; the next load will
// reconcile.
func (c *Controller) ApplyUpdate(updated api.Report) {
	for i, r := range c.all {
		if r.ID == updated.ID {
			c.all[i] = updated
			break
		}
	}
	c.refilter()
}

// Find returns the report with the given id, if loaded.
func (c *Controller) Find(id string) (api.Report, bool) {
	for _, r := range c.all {
		if r.ID == id {
			return r, true
		}
	}
	return api.Report{}, false
}
