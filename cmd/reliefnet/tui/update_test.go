package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"reliefnet/cmd/reliefnet/ui"
	"reliefnet/internal/api"
	"reliefnet/internal/geo"
	"reliefnet/internal/inventory"
	"reliefnet/internal/reports"
	"reliefnet/internal/session"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

type fakeReportGateway struct {
	reports []api.Report
	deleted []string
	fail    error
}

func (f *fakeReportGateway) OwnReports(ctx context.Context) ([]api.Report, error) {
	return f.reports, f.fail
}

func (f *fakeReportGateway) AllReports(ctx context.Context) ([]api.Report, error) {
	return f.reports, f.fail
}

func (f *fakeReportGateway) DeleteReport(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.fail
}

type fakeResourceGateway struct {
	items []api.Resource
}

func (f *fakeResourceGateway) Resources(ctx context.Context) ([]api.Resource, error) {
	return f.items, nil
}

func (f *fakeResourceGateway) AddResource(ctx context.Context, draft api.ResourceDraft) (api.Resource, error) {
	return api.Resource{}, nil
}

func (f *fakeResourceGateway) UpdateResource(ctx context.Context, id string, draft api.ResourceDraft) (api.Resource, error) {
	return api.Resource{}, nil
}

func (f *fakeResourceGateway) DeleteResource(ctx context.Context, id string) error {
	return nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	client, err := api.New(api.DefaultConfig())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	m := New(client, geo.None{}, ui.NewStyles(ui.LightTheme()), nil)
	m.ready = true
	m.width = 100
	m.height = 40
	return m
}

func citizenSession() *session.Context {
	return &session.Context{Identity: api.Identity{
		ID: "u1", Name: "Asna", Email: "asna@example.com", Role: api.RoleCitizen,
	}}
}

func ngoSession() *session.Context {
	return &session.Context{Identity: api.Identity{
		ID: "u2", Name: "Edhi Relief", Email: "ops@example.com", Role: api.RoleNGO,
	}}
}

// seedReports loads the report controller synchronously through a fake feed.
func seedReports(t *testing.T, m *Model, rs ...api.Report) *fakeReportGateway {
	t.Helper()
	gw := &fakeReportGateway{reports: rs}
	m.reportsCtl = reports.NewController(gw, nil)
	if err := m.reportsCtl.Load(context.Background(), reports.RouteOwn); err != nil {
		t.Fatalf("seed reports: %v", err)
	}
	return gw
}

func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ===== IDENTITY AND FETCH PLAN =====

func TestIdentityGatesDashboardFetches(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	if m.reportsBusy || m.inventoryBusy {
		t.Fatal("nothing should be in flight before identity resolves")
	}

	m, cmd := updateModel(t, m, identityMsg{sess: citizenSession()})
	if cmd == nil {
		t.Fatal("resolved identity should issue the dashboard fetches")
	}
	if !m.reportsBusy {
		t.Error("citizen plan should fetch own reports")
	}
	if m.inventoryBusy {
		t.Error("citizen plan must not fetch inventory")
	}
	if !m.weatherBusy {
		t.Error("weather fetch should start with the dashboard")
	}
}

func TestNGOPlanFetchesFeedAndInventory(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, cmd := updateModel(t, m, identityMsg{sess: ngoSession()})
	if cmd == nil {
		t.Fatal("expected fetch commands")
	}
	if !m.reportsBusy || !m.inventoryBusy {
		t.Error("NGO plan should fetch the communal feed and the inventory")
	}
}

func TestIdentityFaultBlocksRoleViews(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = updateModel(t, m, identityMsg{err: &api.Fault{Kind: api.FaultAuth, Status: 401}})
	if m.sessErr == nil {
		t.Fatal("auth fault should be recorded")
	}
	if m.reportsBusy || m.inventoryBusy {
		t.Error("no data fetch may start without a resolved identity")
	}
}

// ===== PANEL INDEPENDENCE =====

func TestPanelFaultsDegradeIndependently(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = updateModel(t, m, identityMsg{sess: ngoSession()})

	m, _ = updateModel(t, m, reportsLoadedMsg{err: &api.Fault{Kind: api.FaultRemote, Message: "boom"}})
	m, _ = updateModel(t, m, inventoryLoadedMsg{})
	m, _ = updateModel(t, m, weatherMsg{bundle: api.WeatherBundle{
		Current: api.Conditions{Location: "Karachi", Temp: 31},
	}})

	if m.reportsErr == nil {
		t.Error("reports fault should be recorded")
	}
	if m.inventoryErr != nil {
		t.Error("inventory must not inherit the reports fault")
	}
	if m.weatherErr != nil || m.weatherData == nil {
		t.Error("weather must settle independently of the reports fault")
	}
}

// ===== CONFIRM FLOW =====

func TestDeleteReportRequiresConfirmation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	gw := seedReports(t, &m,
		api.Report{ID: "r1", Title: "Flooding", LocationName: "Lahore", Status: "PENDING"},
	)
	m.page = PageReports
	m.reportsBusy = false

	m, cmd := updateModel(t, m, keyMsg("d"))
	if m.confirm == nil {
		t.Fatal("'d' should open the confirm dialog")
	}
	if cmd != nil {
		t.Fatal("opening the dialog must not delete anything")
	}

	// Declining leaves the collection untouched.
	m, cmd = updateModel(t, m, keyMsg("n"))
	if m.confirm != nil || cmd != nil {
		t.Fatal("'n' should just close the dialog")
	}
	if len(gw.deleted) != 0 {
		t.Fatal("declined delete must not reach the gateway")
	}

	// Accepting issues the delete command.
	m, _ = updateModel(t, m, keyMsg("d"))
	m, cmd = updateModel(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatal("'y' should issue the delete")
	}
	if !m.reportsBusy {
		t.Error("delete in flight should mark the panel busy")
	}
}

// ===== FORMS =====

func TestReportFormValidatesBeforeSubmitting(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.form = newReportForm(nil)

	// Jump to the last field and submit with everything blank.
	m.form.focusField(len(m.form.fields) - 1)
	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd != nil {
		t.Fatal("invalid form must not issue a network command")
	}
	if m.form == nil || m.form.errMsg == "" {
		t.Fatal("validation failure should surface on the form")
	}
}

func TestReportFormSubmitsValidDraft(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	f := newReportForm(nil)
	f.fields[0].input.SetValue("Flooding near the river")
	f.fields[2].input.SetValue("Lahore")
	f.fields[3].input.SetValue("31.52")
	f.fields[4].input.SetValue("74.35")
	f.focusField(len(f.fields) - 1)
	m.form = f

	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid form should issue the save command")
	}
	if !m.form.busy {
		t.Error("form should be busy while the save is in flight")
	}
}

func TestReportSaveFaultKeepsFormOpen(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.form = newReportForm(nil)
	m.form.busy = true

	m, _ = updateModel(t, m, reportSavedMsg{err: &api.Fault{Kind: api.FaultRemote, Message: "server rejected it"}})
	if m.form == nil {
		t.Fatal("a faulted save must keep the form open for correction")
	}
	if m.form.busy {
		t.Error("fault should return the form to editable state")
	}
	if m.form.errMsg != "server rejected it" {
		t.Errorf("fault message should surface, got %q", m.form.errMsg)
	}
}

func TestCreatedReportTriggersReload(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.form = newReportForm(nil)

	m, cmd := updateModel(t, m, reportSavedMsg{created: true, report: api.Report{ID: "new"}})
	if m.form != nil {
		t.Error("successful save should close the form")
	}
	if cmd == nil || !m.reportsBusy {
		t.Error("a create should reload the feed for the server-assigned record")
	}
}

func TestEditedReportSyncsInPlace(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	seedReports(t, &m,
		api.Report{ID: "r1", Title: "Old title", LocationName: "Lahore"},
		api.Report{ID: "r2", Title: "Other", LocationName: "Quetta"},
	)
	m.reportsBusy = false
	m.form = newReportForm(nil)

	updated := api.Report{ID: "r1", Title: "New title", LocationName: "Lahore"}
	m, cmd := updateModel(t, m, reportSavedMsg{report: updated})
	if cmd != nil {
		t.Error("an edit settles locally, no reload")
	}
	got, ok := m.reportsCtl.Find("r1")
	if !ok || got.Title != "New title" {
		t.Errorf("edit should sync in place, got %+v", got)
	}
	if all := m.reportsCtl.All(); all[0].ID != "r1" {
		t.Error("edited report should keep its position")
	}
}

// ===== INVENTORY =====

func TestInventoryEditOpensPrefilledForm(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = ngoSession()
	m.page = PageInventory
	gw := &fakeResourceGateway{items: []api.Resource{
		{ID: "i1", Category: "MEDICAL", ItemName: "First Aid Kits", Quantity: 40, Unit: "boxes"},
	}}
	m.inventoryCtl = inventory.NewController(gw, nil)
	if err := m.inventoryCtl.Load(context.Background()); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	m, _ = updateModel(t, m, keyMsg("e"))
	if m.form == nil || m.form.kind != formResource {
		t.Fatal("'e' should open the resource form")
	}
	if got := m.form.fields[1].value(); got != "First Aid Kits" {
		t.Errorf("form should prefill from the item, got %q", got)
	}
	if m.form.targetID != "i1" {
		t.Errorf("form should target the selected item, got %q", m.form.targetID)
	}
}

func TestResourceFaultKeepsFormOpen(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = ngoSession()
	m.form = newResourceForm("", inventory.Form{})
	m.form.busy = true
	m.inventoryBusy = true

	m, _ = updateModel(t, m, resourceSavedMsg{err: api.ValidationFault("Please select a category")})
	if m.form == nil {
		t.Fatal("validation fault should keep the form open")
	}
	if m.form.errMsg != "Please select a category" {
		t.Errorf("unexpected message %q", m.form.errMsg)
	}
	if m.inventoryBusy {
		t.Error("panel should settle when the submission does")
	}
}

// ===== CHAT =====

func TestChatQueryRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.page = PageChat
	m.chatInput.Focus()
	m.chatInput.SetValue("Drowning")

	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("a query should issue the ask command")
	}
	if got := len(m.chat.Turns()); got != 1 {
		t.Fatalf("user turn should appear immediately, got %d turns", got)
	}
	if !m.chat.Loading() {
		t.Error("session should be loading while the query is in flight")
	}

	m, _ = updateModel(t, m, adviceMsg{seq: 1, advice: api.Advice{Kind: api.AdvicePlain, Reply: "Call for help."}})
	if got := len(m.chat.Turns()); got != 2 {
		t.Fatalf("settlement should append exactly one bot turn, got %d", got)
	}
	if m.chat.Loading() {
		t.Error("loading should clear once the last query settles")
	}
}

func TestChatFaultAppendsFallback(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.page = PageChat
	m.chatInput.Focus()
	m.chatInput.SetValue("Unknown keyword")
	m, _ = updateModel(t, m, keyMsg("enter"))

	m, _ = updateModel(t, m, adviceMsg{seq: 1, err: &api.Fault{Kind: api.FaultRemote}})
	turns := m.chat.Turns()
	if len(turns) != 2 {
		t.Fatalf("fault still grows the log by one bot turn, got %d", len(turns))
	}
	if turns[1].Advice.Reply == "" {
		t.Error("faulted query should settle with the fallback reply")
	}
}

func TestBlankChatQueryIsNoOp(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.page = PageChat
	m.chatInput.Focus()
	m.chatInput.SetValue("   ")

	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd != nil || len(m.chat.Turns()) != 0 {
		t.Error("blank input must not issue a query or grow the log")
	}
}

// ===== NAVIGATION =====

func TestCitizenCannotReachInventoryPage(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.page = PageReports

	m, _ = updateModel(t, m, keyMsg("3"))
	if m.page == PageInventory {
		t.Error("inventory page is NGO-only")
	}

	if next := m.nextPage(1); next == PageInventory {
		t.Error("tab cycling must skip the inventory page for citizens")
	}
}

func TestShowAllToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sess = citizenSession()
	m.page = PageReports
	seedReports(t, &m,
		api.Report{ID: "r1", Title: "A"}, api.Report{ID: "r2", Title: "B"},
		api.Report{ID: "r3", Title: "C"}, api.Report{ID: "r4", Title: "D"},
	)
	m.reportsBusy = false

	if got := len(m.reportsCtl.Visible()); got != 3 {
		t.Fatalf("collapsed view shows three entries, got %d", got)
	}
	m, _ = updateModel(t, m, keyMsg("a"))
	if got := len(m.reportsCtl.Visible()); got != 4 {
		t.Errorf("show all should expose the full set, got %d", got)
	}
}

func TestWindowSizeMakesViewRenderable(t *testing.T) {
	t.Parallel()

	client, err := api.New(api.DefaultConfig())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	m := New(client, geo.None{}, ui.NewStyles(ui.LightTheme()), nil)

	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	if !m.ready {
		t.Fatal("window size should make the model ready")
	}
	if m.View() == "" {
		t.Error("ready model should render")
	}
}
