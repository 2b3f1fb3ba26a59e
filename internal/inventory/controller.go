// Package inventory owns the NGO resource collection and its single-target
// edit session. The session walks Idle → Editing → Submitting → Idle; at most
// one edit target is active, and starting a new edit replaces the old one.
package inventory

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"reliefnet/internal/api"
)

// Gateway is the slice of the remote gateway the controller needs.
type Gateway interface {
	Resources(ctx context.Context) ([]api.Resource, error)
	AddResource(ctx context.Context, draft api.ResourceDraft) (api.Resource, error)
	UpdateResource(ctx context.Context, id string, draft api.ResourceDraft) (api.Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// Phase is the edit-session state.
type Phase int

const (
	Idle Phase = iota
	Editing
	Submitting
)

// Form is the raw user input for an add/update. Quantity stays a string
// until validation so a non-numeric entry fails fast instead of being
// coerced.
type Form struct {
	Category    string
	ItemName    string
	Quantity    string
	Unit        string
	Description string
}

// Controller maintains the resource collection plus the edit session.
type Controller struct {
	gateway Gateway
	log     *zap.Logger

	items  []api.Resource
	loaded bool

	phase    Phase
	targetID string // empty while creating
}

// NewController builds an empty controller.
func NewController(gateway Gateway, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{gateway: gateway, log: log}
}

// Load fetches the full inventory.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.gateway.Resources(ctx)
	if err != nil {
		return err
	}
	c.items = items
	c.loaded = true
	c.log.Debug("inventory loaded", zap.Int("count", len(items)))
	return nil
}

// Items returns the loaded collection.
func (c *Controller) Items() []api.Resource { return c.items }

// Loaded reports whether an initial load has completed.
func (c *Controller) Loaded() bool { return c.loaded }

// Phase returns the edit-session state.
func (c *Controller) Phase() Phase { return c.phase }

// TargetID returns the id being edited, or "" for a create session.
func (c *Controller) TargetID() string { return c.targetID }

// StartCreate opens a blank edit session. Any open session is replaced.
func (c *Controller) StartCreate() {
	c.phase = Editing
	c.targetID = ""
}

// StartEdit opens an edit session for an existing item and returns the form
// prefilled from it. Any open session is replaced; pending edits do not
// merge. Unknown ids are reported to the caller.
func (c *Controller) StartEdit(id string) (Form, bool) {
	for _, item := range c.items {
		if item.ID == id {
			c.phase = Editing
			c.targetID = id
			unit := item.Unit
			if unit == "" {
				unit = "unit"
			}
			return Form{
				Category:    item.Category,
				ItemName:    item.ItemName,
				Quantity:    strconv.Itoa(item.Quantity),
				Unit:        unit,
				Description: item.Description,
			}, true
		}
	}
	return Form{}, false
}

// Cancel abandons the open edit session.
func (c *Controller) Cancel() {
	c.phase = Idle
	c.targetID = ""
}

// validate applies the client-side pre-conditions. A violation fails fast
// with a ValidationFault and no network call is ever issued.
func validate(form Form) (api.ResourceDraft, error) {
	name := strings.TrimSpace(form.ItemName)
	if name == "" {
		return api.ResourceDraft{}, api.ValidationFault("Item Name is required")
	}

	qty, err := strconv.Atoi(strings.TrimSpace(form.Quantity))
	if err != nil || qty <= 0 {
		return api.ResourceDraft{}, api.ValidationFault("Please enter a valid quantity greater than 0")
	}

	category := strings.ToUpper(strings.TrimSpace(form.Category))
	valid := false
	for _, c := range api.Categories() {
		if category == c {
			valid = true
			break
		}
	}
	if !valid {
		return api.ResourceDraft{}, api.ValidationFault("Please select a category")
	}

	unit := strings.TrimSpace(form.Unit)
	if unit == "" {
		unit = "unit"
	}

	return api.ResourceDraft{
		Category:    category,
		ItemName:    name,
		Quantity:    qty,
		Unit:        unit,
		Description: strings.TrimSpace(form.Description),
	}, nil
}

// Submit validates the form, then either updates the open target in place or
// creates a new item. A create is followed by a full reload: the server owns
// ordering and id assignment, so local insertion would only guess. On any
// fault the session stays open for correction.
func (c *Controller) Submit(ctx context.Context, form Form) error {
	if c.phase != Editing {
		return api.ValidationFault("no edit session is open")
	}

	draft, err := validate(form)
	if err != nil {
		return err
	}

	c.phase = Submitting
	if c.targetID != "" {
		updated, err := c.gateway.UpdateResource(ctx, c.targetID, draft)
		if err != nil {
			c.phase = Editing
			return err
		}
		// Replace in place, keeping the position.
		for i, item := range c.items {
			if item.ID == c.targetID {
				c.items[i] = updated
				break
			}
		}
		c.log.Debug("resource updated", zap.String("id", c.targetID))
	} else {
		if _, err := c.gateway.AddResource(ctx, draft); err != nil {
			c.phase = Editing
			return err
		}
		if err := c.Load(ctx); err != nil {
			// The create itself succeeded; surface the reload fault but
			// close the session so we don't resubmit.
			c.phase = Idle
			c.targetID = ""
			return err
		}
		c.log.Debug("resource added", zap.String("item", draft.ItemName))
	}

	c.phase = Idle
	c.targetID = ""
	return nil
}

// Delete removes one item. Caller confirms first; local removal happens only
// after server acknowledgement.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.gateway.DeleteResource(ctx, id); err != nil {
		return err
	}
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	if c.targetID == id {
		// The open edit target is gone; drop the session.
		c.phase = Idle
		c.targetID = ""
	}
	c.log.Debug("resource deleted", zap.String("id", id))
	return nil
}

// Find returns the resource with the given id, if loaded.
func (c *Controller) Find(id string) (api.Resource, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return api.Resource{}, false
}
