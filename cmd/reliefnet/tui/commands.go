package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"reliefnet/internal/api"
	"reliefnet/internal/inventory"
	"reliefnet/internal/reports"
)

// requestTimeout bounds every command issued from the event loop.
const requestTimeout = 30 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// resolveIdentityCmd fetches the acting identity. Everything role-dependent
// waits for the resulting identityMsg.
func (m Model) resolveIdentityCmd() tea.Cmd {
	resolver := m.resolver
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		sess, err := resolver.Resolve(ctx)
		return identityMsg{sess: sess, err: err}
	}
}

// loadReportsCmd loads the role-routed report feed into the controller.
// The controller is owned by the command until reportsLoadedMsg lands.
func (m Model) loadReportsCmd(route reports.Route) tea.Cmd {
	ctl := m.reportsCtl
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return reportsLoadedMsg{err: ctl.Load(ctx, route)}
	}
}

// loadInventoryCmd loads the NGO resource collection.
func (m Model) loadInventoryCmd() tea.Cmd {
	ctl := m.inventoryCtl
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return inventoryLoadedMsg{err: ctl.Load(ctx)}
	}
}

// loadWeatherCmd runs the geolocate-then-fetch chain. Coordinate failure is
// absorbed inside the resolver; only a remote fault surfaces here.
func (m Model) loadWeatherCmd() tea.Cmd {
	res := m.weatherRes
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		bundle, err := res.Resolve(ctx)
		return weatherMsg{bundle: bundle, err: err}
	}
}

// askCmd submits a knowledge query. seq ties the settlement back to the turn
// opened in Update before this command was issued.
func (m Model) askCmd(seq int, query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		advice, err := client.Ask(ctx, query)
		return adviceMsg{seq: seq, advice: advice, err: err}
	}
}

// deleteReportCmd deletes a confirmed report. The controller removes the
// local entry only after the server acknowledges.
func (m Model) deleteReportCmd(id string) tea.Cmd {
	ctl := m.reportsCtl
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return reportDeletedMsg{id: id, err: ctl.Delete(ctx, id)}
	}
}

// saveReportCmd creates or updates a report.
func (m Model) saveReportCmd(targetID string, draft api.ReportDraft) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if targetID == "" {
			report, err := client.CreateReport(ctx, draft)
			return reportSavedMsg{report: report, created: true, err: err}
		}
		report, err := client.UpdateReport(ctx, targetID, draft)
		return reportSavedMsg{report: report, err: err}
	}
}

// submitResourceCmd runs the inventory edit-session submission.
func (m Model) submitResourceCmd(form inventory.Form) tea.Cmd {
	ctl := m.inventoryCtl
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return resourceSavedMsg{err: ctl.Submit(ctx, form)}
	}
}

// deleteResourceCmd deletes a confirmed inventory item.
func (m Model) deleteResourceCmd(id string) tea.Cmd {
	ctl := m.inventoryCtl
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return resourceDeletedMsg{id: id, err: ctl.Delete(ctx, id)}
	}
}

// saveProfileCmd submits a profile update and refreshes the session context.
func (m Model) saveProfileCmd(update api.ProfileUpdate) tea.Cmd {
	resolver, sess := m.resolver, m.sess
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return profileSavedMsg{err: resolver.UpdateProfile(ctx, sess, update)}
	}
}

// signOutCmd ends the session server-side and clears the local cookies.
func (m Model) signOutCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return signedOutMsg{err: client.Logout(ctx)}
	}
}

// deleteAccountCmd permanently removes the account.
func (m Model) deleteAccountCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return signedOutMsg{err: client.DeleteAccount(ctx)}
	}
}
