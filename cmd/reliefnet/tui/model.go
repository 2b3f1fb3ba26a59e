package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"reliefnet/cmd/reliefnet/ui"
	"reliefnet/internal/api"
	"reliefnet/internal/geo"
	"reliefnet/internal/inventory"
	"reliefnet/internal/knowledge"
	"reliefnet/internal/reports"
	"reliefnet/internal/session"
	"reliefnet/internal/weather"
)

// New assembles the client model. The session is not resolved yet; Init
// issues the identity fetch and everything role-dependent waits on it.
func New(client *api.Client, locator geo.Locator, styles ui.Styles, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	search := textinput.New()
	search.Placeholder = "Search by title or location..."
	search.CharLimit = 80

	chat := textinput.New()
	chat.Placeholder = "Ask about an emergency (e.g. Drowning)..."
	chat.CharLimit = 200

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		log.Warn("markdown renderer unavailable, falling back to plain text", zap.Error(err))
		renderer = nil
	}

	return Model{
		client:       client,
		styles:       styles,
		log:          log,
		resolver:     session.NewResolver(client, log),
		reportsCtl:   reports.NewController(client, log),
		inventoryCtl: inventory.NewController(client, log),
		weatherRes:   weather.NewResolver(client, locator, log),
		chat:         knowledge.NewSession(),
		page:         PageDashboard,
		searchInput:  search,
		chatInput:    chat,
		chatVP:       viewport.New(80, 20),
		suggestIdx:   -1,
		renderer:     renderer,
		spinner:      sp,
	}
}

// Init starts the spinner and resolves the acting identity. Dashboard data
// fetches are issued only once the identity message lands, because the fetch
// plan depends on the role.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resolveIdentityCmd())
}

// =============================================================================
// FORM CONSTRUCTION
// =============================================================================

func newTextField(label, placeholder, value string) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.SetValue(value)
	return formField{label: label, input: in}
}

func newEnumField(label string, options []string, current string) formField {
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	return formField{label: label, options: options, optIdx: idx}
}

// newResourceForm builds the inventory add/edit form. An empty targetID
// means create.
func newResourceForm(targetID string, seed inventory.Form) *formState {
	title := "Add Resource"
	if targetID != "" {
		title = "Edit Resource"
	}
	if seed.Unit == "" {
		seed.Unit = "unit"
	}
	f := &formState{
		kind:     formResource,
		targetID: targetID,
		title:    title,
		fields: []formField{
			newEnumField("Category", api.Categories(), seed.Category),
			newTextField("Item Name", "e.g. Water Bottles", seed.ItemName),
			newTextField("Quantity", "e.g. 100", seed.Quantity),
			newTextField("Unit", "e.g. boxes", seed.Unit),
			newTextField("Description", "optional", seed.Description),
		},
	}
	f.focusField(0)
	return f
}

var disasterTypes = []string{
	api.DisasterFlood, api.DisasterEarthquake, api.DisasterFire, api.DisasterStorm,
}

// newReportForm builds the report create/edit form.
func newReportForm(target *api.Report) *formState {
	title := "New Report"
	targetID := ""
	var seed api.Report
	if target != nil {
		title = "Edit Report"
		targetID = target.ID
		seed = *target
	}
	lat, lon := "", ""
	if target != nil {
		lat = strconv.FormatFloat(seed.Latitude, 'f', -1, 64)
		lon = strconv.FormatFloat(seed.Longitude, 'f', -1, 64)
	}
	f := &formState{
		kind:     formReport,
		targetID: targetID,
		title:    title,
		fields: []formField{
			newTextField("Title", "Short summary", seed.Title),
			newEnumField("Type", disasterTypes, seed.Type),
			newTextField("Location", "e.g. Karachi", seed.LocationName),
			newTextField("Latitude", "e.g. 24.86", lat),
			newTextField("Longitude", "e.g. 67.00", lon),
			newTextField("Description", "What happened?", seed.Description),
		},
	}
	f.focusField(0)
	return f
}

// newProfileForm builds the profile edit form. Password is optional and
// blank means unchanged.
func newProfileForm(identity api.Identity) *formState {
	f := &formState{
		kind:  formProfile,
		title: "Edit Profile",
		fields: []formField{
			newTextField("Name", "", identity.Name),
			newTextField("Number", "", identity.Number),
			newTextField("New Password", "leave blank to keep", ""),
		},
	}
	f.fields[2].input.EchoMode = textinput.EchoPassword
	f.focusField(0)
	return f
}

// focusField moves input focus to field i, blurring the rest.
func (f *formState) focusField(i int) {
	f.focus = i
	for j := range f.fields {
		if j == i && len(f.fields[j].options) == 0 {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}
