// Package tui implements the interactive ReliefNet terminal client: a
// role-aware dashboard, report and inventory management, weather, and the
// first-aid knowledge chat, all multiplexed over one event loop.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"reliefnet/cmd/reliefnet/ui"
	"reliefnet/internal/api"
	"reliefnet/internal/inventory"
	"reliefnet/internal/knowledge"
	"reliefnet/internal/reports"
	"reliefnet/internal/session"
	"reliefnet/internal/weather"
)

// =============================================================================
// PAGES
// =============================================================================

// Page is the active screen.
type Page int

const (
	PageDashboard Page = iota
	PageReports
	PageInventory
	PageWeather
	PageChat
	PageProfile
)

// String returns the tab label.
func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageReports:
		return "Reports"
	case PageInventory:
		return "Inventory"
	case PageWeather:
		return "Weather"
	case PageChat:
		return "First Aid"
	case PageProfile:
		return "Profile"
	}
	return "Unknown"
}

// =============================================================================
// MODAL STATE
// =============================================================================

// confirmKind selects which destructive action a confirm dialog guards.
type confirmKind int

const (
	confirmDeleteReport confirmKind = iota
	confirmDeleteResource
	confirmDeleteAccount
)

// confirmState is an open yes/no dialog. Nothing is deleted until 'y'.
type confirmState struct {
	kind  confirmKind
	id    string
	label string
}

// =============================================================================
// FORMS
// =============================================================================

// formKind selects which record a form edits.
type formKind int

const (
	formResource formKind = iota
	formReport
	formProfile
)

// formState is a generic multi-field edit form. Enum fields cycle with
// left/right instead of accepting free text.
type formState struct {
	kind     formKind
	targetID string // empty while creating
	title    string

	fields []formField
	focus  int
	errMsg string
	busy   bool
}

// formField is one input line of a form.
type formField struct {
	label   string
	input   textinput.Model
	options []string // enum field when non-empty
	optIdx  int
}

// value returns the field's current value regardless of field kind.
func (f *formField) value() string {
	if len(f.options) > 0 {
		return f.options[f.optIdx]
	}
	return f.input.Value()
}

// =============================================================================
// MESSAGES
// =============================================================================

type (
	// identityMsg settles the session resolution that gates the dashboard.
	identityMsg struct {
		sess *session.Context
		err  error
	}

	// reportsLoadedMsg settles the role-dependent report fetch. The
	// controller already holds the data; the message carries only the fault.
	reportsLoadedMsg struct {
		err error
	}

	// inventoryLoadedMsg settles the NGO resource fetch.
	inventoryLoadedMsg struct {
		err error
	}

	// weatherMsg settles the geolocate-then-fetch weather chain.
	weatherMsg struct {
		bundle api.WeatherBundle
		err    error
	}

	// adviceMsg settles a knowledge query. seq ties it back to the turn the
	// session opened when the query was issued.
	adviceMsg struct {
		seq    int
		advice api.Advice
		err    error
	}

	// reportDeletedMsg settles a confirmed report deletion.
	reportDeletedMsg struct {
		id  string
		err error
	}

	// reportSavedMsg settles a report create or edit submission.
	reportSavedMsg struct {
		report  api.Report
		created bool
		err     error
	}

	// resourceDeletedMsg settles a confirmed resource deletion.
	resourceDeletedMsg struct {
		id  string
		err error
	}

	// resourceSavedMsg settles an inventory form submission.
	resourceSavedMsg struct {
		err error
	}

	// profileSavedMsg settles a profile update.
	profileSavedMsg struct {
		err error
	}

	// signedOutMsg settles sign-out or account deletion; either way the
	// session is gone and the client should exit.
	signedOutMsg struct {
		err error
	}
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the complete client state. It is a bubbletea value model: all
// mutation happens in Update, and in-flight work is tracked with per-panel
// busy flags so a slow fetch never blocks the rest of the screen.
type Model struct {
	client *api.Client
	styles ui.Styles
	log    *zap.Logger

	resolver *session.Resolver
	sess     *session.Context
	sessErr  error

	reportsCtl   *reports.Controller
	inventoryCtl *inventory.Controller
	weatherRes   *weather.Resolver
	chat         *knowledge.Session

	page Page

	// Per-panel fetch state. Controllers must not be touched while their
	// busy flag is set; the settling message restores access.
	reportsBusy   bool
	reportsErr    error
	inventoryBusy bool
	inventoryErr  error
	weatherBusy   bool
	weatherErr    error
	weatherData   *api.WeatherBundle

	// Reports page.
	searchInput  textinput.Model
	searchFocus  bool
	reportCursor int

	// Inventory page.
	invCursor int

	// Chat page.
	chatInput  textinput.Model
	chatVP     viewport.Model
	suggestIdx int
	renderer   *glamour.TermRenderer

	// Overlays. At most one of these is active at a time.
	confirm *confirmState
	form    *formState

	spinner  spinner.Model
	status   string
	width    int
	height   int
	ready    bool
	quitting bool
}
