package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reliefnet/internal/api"
)

// fakeGateway counts every network call so validation tests can prove a
// pre-condition failure never reached the wire.
type fakeGateway struct {
	items []api.Resource
	calls int

	addErr    error
	updateErr error
	deleteErr error
}

func (f *fakeGateway) Resources(ctx context.Context) ([]api.Resource, error) {
	f.calls++
	return append([]api.Resource(nil), f.items...), nil
}

func (f *fakeGateway) AddResource(ctx context.Context, draft api.ResourceDraft) (api.Resource, error) {
	f.calls++
	if f.addErr != nil {
		return api.Resource{}, f.addErr
	}
	created := api.Resource{
		ID:       "srv-new",
		Category: draft.Category, ItemName: draft.ItemName,
		Quantity: draft.Quantity, Unit: draft.Unit, Description: draft.Description,
	}
	f.items = append(f.items, created)
	return created, nil
}

func (f *fakeGateway) UpdateResource(ctx context.Context, id string, draft api.ResourceDraft) (api.Resource, error) {
	f.calls++
	if f.updateErr != nil {
		return api.Resource{}, f.updateErr
	}
	return api.Resource{
		ID:       id,
		Category: draft.Category, ItemName: draft.ItemName,
		Quantity: draft.Quantity, Unit: draft.Unit, Description: draft.Description,
	}, nil
}

func (f *fakeGateway) DeleteResource(ctx context.Context, id string) error {
	f.calls++
	return f.deleteErr
}

func stock() []api.Resource {
	return []api.Resource{
		{ID: "i1", Category: api.CategoryFood, ItemName: "Rice bags", Quantity: 50, Unit: "kg"},
		{ID: "i2", Category: api.CategoryMedical, ItemName: "Surgical masks", Quantity: 200, Unit: "boxes"},
		{ID: "i3", Category: api.CategoryShelter, ItemName: "Tents", Quantity: 12, Unit: "units"},
	}
}

func loaded(t *testing.T) (*Controller, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{items: stock()}
	c := NewController(gw, nil)
	require.NoError(t, c.Load(context.Background()))
	gw.calls = 0
	return c, gw
}

// =============================================================================
// VALIDATION PRE-CONDITIONS (never reach the network)
// =============================================================================

func TestSubmit_ValidationNeverIssuesNetworkCall(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		form Form
	}{
		{"blank name", Form{Category: "FOOD", ItemName: "   ", Quantity: "5"}},
		{"zero quantity", Form{Category: "FOOD", ItemName: "Rice", Quantity: "0"}},
		{"negative quantity", Form{Category: "FOOD", ItemName: "Rice", Quantity: "-3"}},
		{"non-integer quantity", Form{Category: "FOOD", ItemName: "Rice", Quantity: "3.5"}},
		{"non-numeric quantity", Form{Category: "FOOD", ItemName: "Rice", Quantity: "many"}},
		{"unknown category", Form{Category: "FUEL", ItemName: "Diesel", Quantity: "5"}},
		{"empty category", Form{Category: "", ItemName: "Rice", Quantity: "5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, gw := loaded(t)
			c.StartCreate()

			err := c.Submit(context.Background(), tc.form)
			require.Error(t, err)
			assert.True(t, api.IsValidation(err), "want validation fault, got %v", err)
			assert.Zero(t, gw.calls, "pre-condition failure must not reach the network")
			assert.Equal(t, Editing, c.Phase(), "session stays open for correction")
		})
	}
}

// =============================================================================
// EDIT SESSION STATE MACHINE
// =============================================================================

func TestStartEdit_PrefillsAndReplacesOpenSession(t *testing.T) {
	t.Parallel()

	c, _ := loaded(t)

	form, ok := c.StartEdit("i1")
	require.True(t, ok)
	assert.Equal(t, "Rice bags", form.ItemName)
	assert.Equal(t, "50", form.Quantity)

	// Opening a second edit replaces the first; pending edits never merge.
	form, ok = c.StartEdit("i2")
	require.True(t, ok)
	assert.Equal(t, "i2", c.TargetID())
	assert.Equal(t, "Surgical masks", form.ItemName)

	// A create session clears the target.
	c.StartCreate()
	assert.Equal(t, Editing, c.Phase())
	assert.Empty(t, c.TargetID())
}

func TestStartEdit_UnknownID(t *testing.T) {
	t.Parallel()

	c, _ := loaded(t)
	_, ok := c.StartEdit("nope")
	assert.False(t, ok)
	assert.Equal(t, Idle, c.Phase())
}

func TestSubmit_UpdateReplacesInPlace(t *testing.T) {
	t.Parallel()

	c, _ := loaded(t)
	_, ok := c.StartEdit("i2")
	require.True(t, ok)

	err := c.Submit(context.Background(), Form{
		Category: "medical", ItemName: " N95 masks ", Quantity: "300", Unit: "boxes",
	})
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 3)
	// Same position, new contents, whitespace trimmed, category normalized.
	assert.Equal(t, "i2", items[1].ID)
	assert.Equal(t, "N95 masks", items[1].ItemName)
	assert.Equal(t, 300, items[1].Quantity)
	assert.Equal(t, api.CategoryMedical, items[1].Category)

	assert.Equal(t, Idle, c.Phase())
	assert.Empty(t, c.TargetID())
}

func TestSubmit_CreateTriggersFullReload(t *testing.T) {
	t.Parallel()

	c, gw := loaded(t)
	c.StartCreate()

	err := c.Submit(context.Background(), Form{
		Category: "TOOLS", ItemName: "Bolt cutters", Quantity: "8",
	})
	require.NoError(t, err)

	// One create plus one reload.
	assert.Equal(t, 2, gw.calls)
	require.Len(t, c.Items(), 4)
	assert.Equal(t, "srv-new", c.Items()[3].ID)
	// Unit defaulted client-side.
	assert.Equal(t, "unit", c.Items()[3].Unit)
	assert.Equal(t, Idle, c.Phase())
}

func TestSubmit_RemoteFaultKeepsSessionAndState(t *testing.T) {
	t.Parallel()

	c, gw := loaded(t)
	gw.updateErr = &api.Fault{Kind: api.FaultRemote, Message: "Operation failed"}
	_, ok := c.StartEdit("i1")
	require.True(t, ok)

	err := c.Submit(context.Background(), Form{Category: "FOOD", ItemName: "Rice", Quantity: "10"})
	require.Error(t, err)
	assert.False(t, api.IsValidation(err))

	assert.Equal(t, Editing, c.Phase(), "fault returns the session to editing")
	assert.Equal(t, "Rice bags", c.Items()[0].ItemName, "no partial mutation committed")
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_LocalRemovalOnlyAfterAck(t *testing.T) {
	t.Parallel()

	c, _ := loaded(t)
	require.NoError(t, c.Delete(context.Background(), "i2"))
	require.Len(t, c.Items(), 2)
	assert.Equal(t, "i1", c.Items()[0].ID)
	assert.Equal(t, "i3", c.Items()[1].ID)
}

func TestDelete_FaultLeavesItems(t *testing.T) {
	t.Parallel()

	c, gw := loaded(t)
	gw.deleteErr = &api.Fault{Kind: api.FaultRemote, Message: "Delete failed"}
	require.Error(t, c.Delete(context.Background(), "i2"))
	assert.Len(t, c.Items(), 3)
}

func TestDelete_DropsOpenEditSessionForTarget(t *testing.T) {
	t.Parallel()

	c, _ := loaded(t)
	_, ok := c.StartEdit("i3")
	require.True(t, ok)
	require.NoError(t, c.Delete(context.Background(), "i3"))
	assert.Equal(t, Idle, c.Phase())
	assert.Empty(t, c.TargetID())
}
