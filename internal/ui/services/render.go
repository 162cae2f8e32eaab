package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// Columns are the monitor table columns.
func Columns() []table.Column {
	return []table.Column{
		{Title: "MONITOR", Width: 24},
		{Title: "STATUS", Width: 10},
		{Title: "TYPE", Width: 5},
		{Title: "RESOURCE", Width: 36},
		{Title: "TIMEOUT", Width: 8},
		{Title: "GROUP", Width: 14},
	}
}

// Row formats one monitor.
func Row(r shared.Row[linode.ManagedServiceMonitor]) table.Row {
	svc := r.Record
	return table.Row{
		shared.Truncate(svc.Label, 24),
		string(svc.Status),
		strings.ToUpper(string(svc.ServiceType)),
		shared.Truncate(svc.Address, 36),
		strconv.Itoa(svc.Timeout) + "s",
		shared.Truncate(shared.OrDash(svc.ConsultationGroup), 14),
	}
}

// RenderList renders the monitor list with a status summary.
func RenderList(st State) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("Managed Services") + "\n\n")
	b.WriteString(st.Table.View() + "\n")
	if !st.LastUpdated.IsZero() {
		counts := CountByStatus(st.Services)
		var parts []string
		for _, status := range []linode.ServiceStatus{linode.ServiceStatusOK, linode.ServiceStatusPending, linode.ServiceStatusProblem, linode.ServiceStatusDisabled} {
			parts = append(parts, shared.StatusStyle(string(status)).Render(fmt.Sprintf("%d %s", counts[status], status)))
		}
		b.WriteString("\n" + strings.Join(parts, "  "))
		b.WriteString(shared.HintStyle.Render(fmt.Sprintf("  • updated %s", humanize.Time(st.LastUpdated))))
	}
	return b.String()
}

// RenderConfirmation renders the y/n prompt for a pending action.
func RenderConfirmation(st State) string {
	if !st.ShowingConfirmation {
		return ""
	}
	label := strconv.Itoa(st.ConfirmServiceID)
	for _, svc := range st.Services {
		if svc.ID == st.ConfirmServiceID {
			label = svc.Label
			break
		}
	}
	action := st.ConfirmAction
	if action == "delete" {
		action = shared.ErrorStyle.Bold(true).Render("DELETE")
	}
	return fmt.Sprintf("Are you sure you want to %s monitor %s?\n\n(y)es / (n)o", action, label)
}
