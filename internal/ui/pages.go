package ui

import (
	"fmt"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/router"
)

// viewRenderer draws the main pane for a route.
type viewRenderer func(m *Model, route router.Route, width int) []styledLine

func defaultViews() map[string]viewRenderer {
	return map[string]viewRenderer{
		router.DashboardComponent: renderDashboard,
	}
}

// renderDashboard is the placeholder page shared by every route. It reports
// where the user is and the current UI flags.
func renderDashboard(m *Model, route router.Route, width int) []styledLine {
	status := m.store.APIStatus()
	statusStyle := styles.StatusDegraded
	if status == api.StatusHealthy {
		statusStyle = styles.StatusHealthy
	}
	panel := "closed"
	if m.store.IsAIPanelOpen() {
		panel = "open"
	}
	return []styledLine{
		{text: route.Title, style: styles.PageTitle},
		{text: route.Path, style: styles.Info},
		{},
		{text: fmt.Sprintf("API status: %s", status), style: statusStyle},
		{text: fmt.Sprintf("Loading: %s", yesNo(m.store.IsLoading())), style: styles.PageBody},
		{text: fmt.Sprintf("Assistant: %s", panel), style: styles.PageBody},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
