package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reliefnet/cmd/reliefnet/ui"
	"reliefnet/internal/aggregate"
	"reliefnet/internal/api"
	"reliefnet/internal/knowledge"
	"reliefnet/internal/weather"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting ReliefNet..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")

	switch {
	case m.confirm != nil:
		sb.WriteString(m.renderConfirm())
	case m.form != nil:
		sb.WriteString(m.renderForm())
	case m.sessErr != nil:
		sb.WriteString(m.styles.Content.Render(
			m.styles.Error.Render("✗ ") + m.styles.Body.Render(m.status)))
	case m.sess == nil:
		sb.WriteString(m.styles.Content.Render(
			m.spinner.View() + " Resolving your session..."))
	default:
		sb.WriteString(m.renderPage())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" ReliefNet ")
	who := ""
	if m.sess != nil {
		who = m.styles.Muted.Render("  "+m.sess.Identity.Name+" ") +
			m.styles.Badge.Render(string(m.sess.Role()))
	}

	var tabs []string
	for p := PageDashboard; p <= PageProfile; p++ {
		if p == PageInventory && (m.sess == nil || !m.sess.IsNGO()) {
			continue
		}
		label := fmt.Sprintf("%d:%s", int(p)+1, p)
		if p == m.page {
			tabs = append(tabs, m.styles.TabOn.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabOff.Render(label))
		}
	}

	return title + who + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	hints := m.keyHints()
	line := m.styles.RenderDivider(min(m.width, 80))
	status := ""
	if m.status != "" {
		status = m.styles.Info.Render(m.status) + "  "
	}
	return line + "\n" + status + m.styles.Footer.Render(hints)
}

func (m Model) keyHints() string {
	if m.confirm != nil {
		return "y confirm · n cancel"
	}
	if m.form != nil {
		return "tab next field · ←/→ choose · enter submit · esc cancel"
	}
	switch m.page {
	case PageReports:
		if m.sess != nil && !m.sess.IsNGO() {
			return "/ search · n new · e edit · d delete · a show all · r refresh · q quit"
		}
		return "/ search · a show all · r refresh · q quit"
	case PageInventory:
		return "n add · e edit · d delete · r refresh · q quit"
	case PageChat:
		if m.chatInput.Focused() {
			return "enter ask · tab suggestions · esc leave input"
		}
		return "i type a question · ↑/↓ scroll · 1-6 pages · q quit"
	case PageProfile:
		return "e edit · o sign out · x delete account · q quit"
	}
	return "1-6 pages · tab cycle · r refresh · q quit"
}

func (m Model) renderPage() string {
	switch m.page {
	case PageDashboard:
		return m.renderDashboard()
	case PageReports:
		return m.renderReports()
	case PageInventory:
		return m.renderInventory()
	case PageWeather:
		return m.renderWeather()
	case PageChat:
		return m.renderChat()
	case PageProfile:
		return m.renderProfile()
	}
	return ""
}

// =============================================================================
// DASHBOARD
// =============================================================================

// renderDashboard composes the role-conditional home screen. Each panel
// renders from its own fetch state, so a faulted panel degrades alone.
func (m Model) renderDashboard() string {
	var sb strings.Builder
	sb.WriteString(m.renderWeatherBanner())
	sb.WriteString("\n")

	if m.sess.IsNGO() {
		sb.WriteString(m.renderTotalsCards())
		sb.WriteString("\n")
		sb.WriteString(m.styles.Title.Render("Community Reports"))
		sb.WriteString("\n")
		sb.WriteString(m.renderReportList(5))
	} else {
		sb.WriteString(m.styles.Title.Render("Your Activity"))
		sb.WriteString("\n")
		sb.WriteString(m.renderReportList(0))
	}
	return m.styles.Content.Render(sb.String())
}

// renderWeatherBanner is the compact current-conditions strip on the
// dashboard.
func (m Model) renderWeatherBanner() string {
	switch {
	case m.weatherBusy:
		return m.styles.Muted.Render(m.spinner.View() + " Fetching weather...")
	case m.weatherErr != nil:
		return m.styles.Muted.Render("Weather unavailable")
	case m.weatherData == nil:
		return ""
	}
	cur := m.weatherData.Current
	icon := weather.IconFor(cur.Conditions).Glyph()
	return m.styles.Card.Render(fmt.Sprintf("%s  %s  %.0f°C  %s",
		icon, cur.Location, cur.Temp, cur.Conditions))
}

// renderTotalsCards shows the per-category inventory totals.
func (m Model) renderTotalsCards() string {
	if m.inventoryBusy {
		return m.styles.Muted.Render(m.spinner.View() + " Loading inventory...")
	}
	if m.inventoryErr != nil {
		return m.styles.Error.Render("Inventory unavailable: " + faultText(m.inventoryErr))
	}

	totals := aggregate.Totals(m.inventoryCtl.Items())
	var cards []string
	for _, cat := range api.Categories() {
		meta := aggregate.MetaFor(cat)
		card := m.styles.Card.Render(fmt.Sprintf("%s %s\n%d", meta.Glyph, meta.Label, totals[cat]))
		cards = append(cards, card)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// =============================================================================
// REPORTS
// =============================================================================

func (m Model) renderReports() string {
	var sb strings.Builder
	if m.sess.IsNGO() {
		sb.WriteString(m.styles.Title.Render("Community Reports"))
	} else {
		sb.WriteString(m.styles.Title.Render("Your Reports"))
	}
	sb.WriteString("\n")

	prompt := "/ "
	if m.searchFocus {
		prompt = m.styles.Prompt.Render("/ ")
	}
	sb.WriteString(prompt + m.searchInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderReportList(0))
	return m.styles.Content.Render(sb.String())
}

// renderReportList renders the filtered feed. limit > 0 caps the list for
// the dashboard preview; 0 defers to the controller's show-all toggle.
func (m Model) renderReportList(limit int) string {
	if m.reportsBusy {
		return m.styles.Muted.Render(m.spinner.View() + " Loading reports...")
	}
	if m.reportsErr != nil {
		return m.styles.Error.Render("Reports unavailable: " + faultText(m.reportsErr))
	}

	visible := m.reportsCtl.Visible()
	if limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	if len(visible) == 0 {
		if m.reportsCtl.Term() != "" {
			return m.styles.Muted.Render("No reports match your search.")
		}
		return m.styles.Muted.Render("No reports yet.")
	}

	var sb strings.Builder
	for i, r := range visible {
		cursor := "  "
		if m.page != PageDashboard && i == m.reportCursor {
			cursor = m.styles.Prompt.Render("> ")
		}
		line := fmt.Sprintf("%s%s %s %s",
			cursor,
			m.styles.StatusBadge(r.Status),
			m.styles.Bold.Render(r.Title),
			m.styles.Muted.Render(r.Type+" · "+r.LocationName))
		sb.WriteString(line + "\n")
		if m.page != PageDashboard && i == m.reportCursor && r.Description != "" {
			sb.WriteString("    " + m.styles.Body.Render(r.Description) + "\n")
		}
	}

	if limit == 0 && len(m.reportsCtl.Filtered()) > len(visible) {
		sb.WriteString(m.styles.Muted.Render(
			fmt.Sprintf("  ...and %d more (press a to show all)",
				len(m.reportsCtl.Filtered())-len(visible))))
		sb.WriteString("\n")
	} else if limit == 0 && m.reportsCtl.ShowingAll() && len(visible) > 3 {
		sb.WriteString(m.styles.Muted.Render("  press a to show fewer"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// INVENTORY
// =============================================================================

func (m Model) renderInventory() string {
	if m.inventoryBusy {
		return m.styles.Content.Render(m.spinner.View() + " Loading inventory...")
	}
	if m.inventoryErr != nil {
		return m.styles.Content.Render(
			m.styles.Error.Render("Inventory unavailable: " + faultText(m.inventoryErr)))
	}

	table := ui.NewSimpleTable("Relief Inventory", []string{"", "CATEGORY", "ITEM", "QTY", "UNIT"})
	table.Empty = "No resources recorded yet. Press n to add one."
	table.AlignRight(3)
	for i, item := range m.inventoryCtl.Items() {
		cursor := " "
		if i == m.invCursor {
			cursor = ">"
		}
		table.AddRow(cursor, item.Category, item.ItemName, strconv.Itoa(item.Quantity), item.Unit)
	}
	return m.styles.Content.Render(table.View(m.styles))
}

// =============================================================================
// WEATHER
// =============================================================================

func (m Model) renderWeather() string {
	if m.weatherBusy {
		return m.styles.Content.Render(m.spinner.View() + " Fetching weather...")
	}
	if m.weatherErr != nil {
		return m.styles.Content.Render(
			m.styles.Error.Render("Weather unavailable: " + faultText(m.weatherErr)))
	}
	if m.weatherData == nil {
		return m.styles.Content.Render(m.styles.Muted.Render("Press r to fetch weather."))
	}

	var sb strings.Builder
	cur := m.weatherData.Current
	sb.WriteString(m.styles.Title.Render("Weather · " + cur.Location))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Card.Render(fmt.Sprintf("%s  %.1f°C\n%s\nWind %.0f km/h",
		weather.IconFor(cur.Conditions).Glyph(), cur.Temp, cur.Conditions, cur.Windspeed)))
	sb.WriteString("\n\n")

	var days []string
	for i, day := range m.weatherData.Forecast {
		days = append(days, m.styles.Card.Render(fmt.Sprintf("%s\n%s %.0f°",
			weather.DayLabel(i, day.Date),
			weather.IconFor(day.Conditions).Glyph(),
			day.Temp)))
	}
	if len(days) > 0 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, days...))
	}
	return m.styles.Content.Render(sb.String())
}

// =============================================================================
// CHAT
// =============================================================================

func (m Model) renderChat() string {
	var sb strings.Builder
	sb.WriteString(m.chatVP.View())
	sb.WriteString("\n")

	if m.chat.Loading() {
		sb.WriteString(m.styles.Muted.Render(m.spinner.View() + " Thinking..."))
		sb.WriteString("\n")
	} else if len(m.chat.Turns()) == 0 {
		sb.WriteString(m.styles.Muted.Render(
			"Try: " + strings.Join(knowledge.Suggestions[:5], ", ") + " ..."))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Prompt.Render("> ") + m.chatInput.View())
	return m.styles.Content.Render(sb.String())
}

// renderChatLog renders the append-only turn log for the chat viewport.
func (m Model) renderChatLog() string {
	var sb strings.Builder
	for _, turn := range m.chat.Turns() {
		switch turn.Role {
		case knowledge.TurnUser:
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Primary).Render("You"))
			sb.WriteString("\n")
			sb.WriteString(m.styles.UserInput.Render(turn.Text))
			sb.WriteString("\n\n")
		case knowledge.TurnBot:
			name := "ReliefNet"
			if turn.Advice.Verified {
				name += " ✓"
			}
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Accent).Render(name))
			sb.WriteString("\n")
			sb.WriteString(m.renderAdvice(turn.Advice))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderAdvice renders an answer payload. Structured advice becomes a small
// markdown document so glamour handles headings and wrapping.
func (m Model) renderAdvice(advice api.Advice) string {
	if advice.Kind == api.AdvicePlain {
		return m.styles.BotReply.Render(advice.Reply) + "\n"
	}

	var doc strings.Builder
	if advice.Title != "" {
		doc.WriteString("## " + advice.Title + "\n\n")
	}
	if advice.RecoveryPosition != "" {
		doc.WriteString("**Recovery Position**\n\n" + advice.RecoveryPosition + "\n\n")
	}
	if advice.Steps != "" {
		doc.WriteString("**Steps**\n\n" + advice.Steps + "\n\n")
	}
	if advice.Precautions != "" {
		doc.WriteString("**Precautions**\n\n" + advice.Precautions + "\n")
	}
	return m.safeRenderMarkdown(doc.String())
}

// safeRenderMarkdown renders markdown, falling back to plain text if the
// renderer is unavailable or panics on malformed input.
func (m Model) safeRenderMarkdown(text string) (out string) {
	if m.renderer == nil {
		return text
	}
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()
	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return rendered
}

// =============================================================================
// PROFILE
// =============================================================================

func (m Model) renderProfile() string {
	id := m.sess.Identity
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Profile"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Card.Render(fmt.Sprintf(
		"%s %s\n%s %s\n%s %s\n%s %s",
		m.styles.Muted.Render("Name  "), id.Name,
		m.styles.Muted.Render("Email "), id.Email,
		m.styles.Muted.Render("Phone "), id.Number,
		m.styles.Muted.Render("Role  "), string(id.Role))))
	return m.styles.Content.Render(sb.String())
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderConfirm() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Danger.Render(" Confirm "))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Body.Render(m.confirm.label))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("y: yes · n: no"))
	return m.styles.Content.Render(sb.String())
}

func (m Model) renderForm() string {
	f := m.form
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(f.title))
	sb.WriteString("\n")

	for i := range f.fields {
		field := &f.fields[i]
		label := field.label
		if i == f.focus {
			label = m.styles.Prompt.Render("> " + label)
		} else {
			label = m.styles.Muted.Render("  " + label)
		}
		sb.WriteString(label + "\n")
		if len(field.options) > 0 {
			choice := field.options[field.optIdx]
			if i == f.focus {
				choice = "← " + choice + " →"
			}
			sb.WriteString("    " + m.styles.Body.Render(choice) + "\n")
		} else {
			sb.WriteString("    " + field.input.View() + "\n")
		}
	}

	if f.errMsg != "" {
		sb.WriteString("\n" + m.styles.Error.Render("✗ "+f.errMsg) + "\n")
	}
	if f.busy {
		sb.WriteString("\n" + m.styles.Muted.Render(m.spinner.View()+" Saving...") + "\n")
	}
	return m.styles.Content.Render(sb.String())
}
