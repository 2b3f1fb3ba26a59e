package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"reliefnet/internal/api"
	"reliefnet/internal/inventory"
	"reliefnet/internal/knowledge"
	"reliefnet/internal/reports"
	"reliefnet/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.chatVP.Width = msg.Width - 4
		m.chatVP.Height = msg.Height - 10
		m.chatVP.SetContent(m.renderChatLog())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case identityMsg:
		return m.handleIdentity(msg)

	case reportsLoadedMsg:
		m.reportsBusy = false
		m.reportsErr = msg.err
		m.clampCursors()
		return m, nil

	case inventoryLoadedMsg:
		m.inventoryBusy = false
		m.inventoryErr = msg.err
		m.clampCursors()
		return m, nil

	case weatherMsg:
		m.weatherBusy = false
		m.weatherErr = msg.err
		if msg.err == nil {
			bundle := msg.bundle
			m.weatherData = &bundle
		}
		return m, nil

	case adviceMsg:
		if msg.err != nil {
			m.log.Debug("knowledge query faulted", zap.Error(msg.err))
			m.chat.Fail(msg.seq)
		} else {
			m.chat.Resolve(msg.seq, msg.advice)
		}
		m.chatVP.SetContent(m.renderChatLog())
		m.chatVP.GotoBottom()
		return m, nil

	case reportDeletedMsg:
		m.reportsBusy = false
		if msg.err != nil {
			m.status = "Delete failed: " + faultText(msg.err)
		} else {
			m.status = "Report deleted"
		}
		m.clampCursors()
		return m, nil

	case reportSavedMsg:
		return m.handleReportSaved(msg)

	case resourceSavedMsg:
		m.inventoryBusy = false
		if msg.err != nil {
			if m.form != nil {
				m.form.busy = false
				m.form.errMsg = faultText(msg.err)
			}
			return m, nil
		}
		m.form = nil
		m.status = "Resource saved"
		m.clampCursors()
		return m, nil

	case resourceDeletedMsg:
		m.inventoryBusy = false
		if msg.err != nil {
			m.status = "Delete failed: " + faultText(msg.err)
		} else {
			m.status = "Resource deleted"
		}
		m.clampCursors()
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.busy = false
				m.form.errMsg = faultText(msg.err)
			}
			return m, nil
		}
		m.form = nil
		m.status = "Profile updated"
		return m, nil

	case signedOutMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleIdentity applies the resolved session and issues the role-conditional
// dashboard fetches. The plan entries run as independent commands so one
// faulting panel never blocks another.
func (m Model) handleIdentity(msg identityMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.sessErr = msg.err
		if api.IsAuth(msg.err) {
			m.status = "Not signed in. Run `reliefnet login` first."
		} else {
			m.status = "Could not reach the platform: " + faultText(msg.err)
		}
		return m, nil
	}

	m.sess = msg.sess
	m.sessErr = nil

	cmds := []tea.Cmd{m.loadWeatherCmd()}
	m.weatherBusy = true
	for _, fetch := range session.FetchPlan(m.sess.Role()) {
		switch fetch {
		case session.FetchOwnReports:
			m.reportsBusy = true
			cmds = append(cmds, m.loadReportsCmd(reports.RouteOwn))
		case session.FetchAllReports:
			m.reportsBusy = true
			cmds = append(cmds, m.loadReportsCmd(reports.RouteCommunal))
		case session.FetchOwnResources:
			m.inventoryBusy = true
			cmds = append(cmds, m.loadInventoryCmd())
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleReportSaved(msg reportSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.form != nil {
			m.form.busy = false
			m.form.errMsg = faultText(msg.err)
		}
		return m, nil
	}
	m.form = nil
	if msg.created {
		// The server assigns id and status; reload instead of guessing.
		m.status = "Report submitted"
		m.reportsBusy = true
		return m, m.loadReportsCmd(m.reportRoute())
	}
	m.status = "Report updated"
	if !m.reportsBusy {
		m.reportsCtl.ApplyUpdate(msg.report)
	}
	return m, nil
}

// reportRoute maps the session role to the feed the reports page shows.
func (m Model) reportRoute() reports.Route {
	if m.sess != nil && session.ReportSource(m.sess.Role()) == session.FetchAllReports {
		return reports.RouteCommunal
	}
	return reports.RouteOwn
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays capture all input while open.
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.searchFocus {
		return m.handleSearchKey(msg)
	}
	if m.page == PageChat {
		if handled, model, cmd := m.handleChatKey(msg); handled {
			return model, cmd
		}
	}

	return m.handlePageKey(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch strings.ToLower(msg.String()) {
	case "y":
		m.confirm = nil
		switch c.kind {
		case confirmDeleteReport:
			m.reportsBusy = true
			return m, m.deleteReportCmd(c.id)
		case confirmDeleteResource:
			m.inventoryBusy = true
			return m, m.deleteResourceCmd(c.id)
		case confirmDeleteAccount:
			return m, m.deleteAccountCmd()
		}
	case "n", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		if f.kind == formResource {
			m.inventoryCtl.Cancel()
		}
		m.form = nil
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		f.focusField((f.focus + 1) % len(f.fields))
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		f.focusField((f.focus + len(f.fields) - 1) % len(f.fields))
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		field := &f.fields[f.focus]
		if len(field.options) > 0 {
			if msg.Type == tea.KeyRight {
				field.optIdx = (field.optIdx + 1) % len(field.options)
			} else {
				field.optIdx = (field.optIdx + len(field.options) - 1) % len(field.options)
			}
			return m, nil
		}

	case tea.KeyEnter:
		if f.focus < len(f.fields)-1 {
			f.focusField(f.focus + 1)
			return m, nil
		}
		return m.submitForm()
	}

	field := &f.fields[f.focus]
	if len(field.options) == 0 {
		var cmd tea.Cmd
		field.input, cmd = field.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submitForm validates locally where the form owns validation (reports,
// profile) and dispatches the save command. Inventory validation lives in
// the controller and comes back through resourceSavedMsg.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	f.errMsg = ""

	switch f.kind {
	case formResource:
		form := inventory.Form{
			Category:    f.fields[0].value(),
			ItemName:    f.fields[1].value(),
			Quantity:    f.fields[2].value(),
			Unit:        f.fields[3].value(),
			Description: f.fields[4].value(),
		}
		f.busy = true
		m.inventoryBusy = true
		return m, m.submitResourceCmd(form)

	case formReport:
		draft, err := reportDraftFromForm(f)
		if err != "" {
			f.errMsg = err
			return m, nil
		}
		f.busy = true
		return m, m.saveReportCmd(f.targetID, draft)

	case formProfile:
		name := strings.TrimSpace(f.fields[0].value())
		if name == "" {
			f.errMsg = "Name is required"
			return m, nil
		}
		update := api.ProfileUpdate{
			Name:     name,
			Number:   strings.TrimSpace(f.fields[1].value()),
			Password: f.fields[2].value(),
		}
		f.busy = true
		return m, m.saveProfileCmd(update)
	}
	return m, nil
}

func reportDraftFromForm(f *formState) (api.ReportDraft, string) {
	title := strings.TrimSpace(f.fields[0].value())
	if title == "" {
		return api.ReportDraft{}, "Title is required"
	}
	location := strings.TrimSpace(f.fields[2].value())
	if location == "" {
		return api.ReportDraft{}, "Location is required"
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(f.fields[3].value()), 64)
	if err != nil {
		return api.ReportDraft{}, "Latitude must be a number"
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(f.fields[4].value()), 64)
	if err != nil {
		return api.ReportDraft{}, "Longitude must be a number"
	}
	return api.ReportDraft{
		Title:        title,
		Type:         f.fields[1].value(),
		LocationName: location,
		Latitude:     lat,
		Longitude:    lon,
		Description:  strings.TrimSpace(f.fields[5].value()),
	}, ""
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searchFocus = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if !m.reportsBusy {
		m.reportsCtl.Search(m.searchInput.Value())
		m.clampCursors()
	}
	return m, cmd
}

// handleChatKey owns typing on the chat page. Esc blurs the input; while
// blurred, keys fall through to page navigation and 'i' refocuses.
func (m Model) handleChatKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if !m.chatInput.Focused() {
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.chatVP, cmd = m.chatVP.Update(msg)
			return true, m, cmd
		}
		if msg.String() == "i" {
			m.chatInput.Focus()
			return true, m, textinput.Blink
		}
		return false, m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.chatInput.Blur()
		return true, m, nil

	case tea.KeyEnter:
		query := m.chatInput.Value()
		seq, ok := m.chat.Begin(query)
		if !ok {
			return true, m, nil
		}
		m.chatInput.SetValue("")
		m.suggestIdx = -1
		m.chatVP.SetContent(m.renderChatLog())
		m.chatVP.GotoBottom()
		return true, m, m.askCmd(seq, query)

	case tea.KeyTab:
		// Cycle the quick-fill emergency keywords into the input.
		m.suggestIdx = (m.suggestIdx + 1) % len(knowledge.Suggestions)
		m.chatInput.SetValue(knowledge.Suggestions[m.suggestIdx])
		m.chatInput.CursorEnd()
		return true, m, nil

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		return true, m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return true, m, cmd
}

func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1":
		return m.switchPage(PageDashboard)
	case "2":
		return m.switchPage(PageReports)
	case "3":
		if m.sess != nil && m.sess.IsNGO() {
			return m.switchPage(PageInventory)
		}
	case "4":
		return m.switchPage(PageWeather)
	case "5":
		return m.switchPage(PageChat)
	case "6":
		return m.switchPage(PageProfile)
	case "tab":
		return m.switchPage(m.nextPage(1))
	case "shift+tab":
		return m.switchPage(m.nextPage(-1))
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m.refreshPage()
	}

	switch m.page {
	case PageDashboard, PageReports:
		return m.handleReportsKey(msg)
	case PageInventory:
		return m.handleInventoryKey(msg)
	case PageProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m Model) handleReportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reportsBusy || !m.reportsCtl.Loaded() {
		return m, nil
	}

	switch msg.String() {
	case "/":
		if m.page == PageReports {
			m.searchFocus = true
			m.searchInput.Focus()
		}
	case "a":
		m.reportsCtl.ToggleShowAll()
		m.clampCursors()
	case "up", "k":
		if m.reportCursor > 0 {
			m.reportCursor--
		}
	case "down", "j":
		if m.reportCursor < len(m.reportsCtl.Visible())-1 {
			m.reportCursor++
		}
	case "n":
		if m.sess != nil && !m.sess.IsNGO() {
			m.form = newReportForm(nil)
		}
	case "e":
		if m.sess != nil && !m.sess.IsNGO() {
			if r, ok := m.selectedReport(); ok {
				m.form = newReportForm(&r)
			}
		}
	case "d":
		if m.sess != nil && !m.sess.IsNGO() {
			if r, ok := m.selectedReport(); ok {
				m.confirm = &confirmState{
					kind:  confirmDeleteReport,
					id:    r.ID,
					label: "Delete report \"" + r.Title + "\"?",
				}
			}
		}
	}
	return m, nil
}

func (m Model) handleInventoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inventoryBusy || !m.inventoryCtl.Loaded() {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.invCursor > 0 {
			m.invCursor--
		}
	case "down", "j":
		if m.invCursor < len(m.inventoryCtl.Items())-1 {
			m.invCursor++
		}
	case "n":
		m.inventoryCtl.StartCreate()
		m.form = newResourceForm("", inventory.Form{})
	case "e":
		if item, ok := m.selectedResource(); ok {
			if seed, ok := m.inventoryCtl.StartEdit(item.ID); ok {
				m.form = newResourceForm(item.ID, seed)
			}
		}
	case "d":
		if item, ok := m.selectedResource(); ok {
			m.confirm = &confirmState{
				kind:  confirmDeleteResource,
				id:    item.ID,
				label: "Delete \"" + item.ItemName + "\" from inventory?",
			}
		}
	}
	return m, nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	switch msg.String() {
	case "e":
		m.form = newProfileForm(m.sess.Identity)
	case "o":
		return m, m.signOutCmd()
	case "x":
		m.confirm = &confirmState{
			kind:  confirmDeleteAccount,
			label: "Permanently delete your account? This cannot be undone.",
		}
	}
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) switchPage(p Page) (tea.Model, tea.Cmd) {
	m.page = p
	m.status = ""
	if p == PageChat {
		m.chatInput.Focus()
		m.chatVP.SetContent(m.renderChatLog())
		m.chatVP.GotoBottom()
		return m, textinput.Blink
	}
	m.chatInput.Blur()
	// Weather is cached by coordinate bucket, so revisits are free.
	if p == PageWeather && m.weatherData == nil && !m.weatherBusy && m.sess != nil {
		m.weatherBusy = true
		return m, m.loadWeatherCmd()
	}
	return m, nil
}

// nextPage cycles through the pages the current role can see.
func (m Model) nextPage(dir int) Page {
	p := m.page
	for {
		p = Page((int(p) + dir + 6) % 6)
		if p == PageInventory && (m.sess == nil || !m.sess.IsNGO()) {
			continue
		}
		return p
	}
}

// refreshPage reissues the active page's fetch.
func (m Model) refreshPage() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, m.resolveIdentityCmd()
	}
	switch m.page {
	case PageDashboard, PageReports:
		if !m.reportsBusy {
			m.reportsBusy = true
			return m, m.loadReportsCmd(m.reportRoute())
		}
	case PageInventory:
		if !m.inventoryBusy {
			m.inventoryBusy = true
			return m, m.loadInventoryCmd()
		}
	case PageWeather:
		if !m.weatherBusy {
			m.weatherBusy = true
			return m, m.loadWeatherCmd()
		}
	}
	return m, nil
}

func (m Model) selectedReport() (api.Report, bool) {
	visible := m.reportsCtl.Visible()
	if m.reportCursor < 0 || m.reportCursor >= len(visible) {
		return api.Report{}, false
	}
	return visible[m.reportCursor], true
}

func (m Model) selectedResource() (api.Resource, bool) {
	items := m.inventoryCtl.Items()
	if m.invCursor < 0 || m.invCursor >= len(items) {
		return api.Resource{}, false
	}
	return items[m.invCursor], true
}

// clampCursors keeps selections inside the (possibly shrunk) collections.
func (m *Model) clampCursors() {
	if !m.reportsBusy {
		if n := len(m.reportsCtl.Visible()); m.reportCursor >= n {
			m.reportCursor = max(0, n-1)
		}
	}
	if !m.inventoryBusy {
		if n := len(m.inventoryCtl.Items()); m.invCursor >= n {
			m.invCursor = max(0, n-1)
		}
	}
}

// faultText extracts the human-readable message from a gateway fault.
func faultText(err error) string {
	var fault *api.Fault
	if errors.As(err, &fault) && fault.Message != "" {
		return fault.Message
	}
	return err.Error()
}
