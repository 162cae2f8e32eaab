package services

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// EmptyMessage is shown once services were fetched and there are none.
const EmptyMessage = "You don't have any Monitors on your account."

// State contains service-monitor UI and data state.
type State struct {
	Services    []linode.ManagedServiceMonitor
	Loading     bool
	LastUpdated time.Time
	Errors      linode.APIErrors
	Table       *shared.Table[linode.ManagedServiceMonitor]

	ShowingConfirmation bool
	ConfirmAction       string
	ConfirmServiceID    int
}

// NewState returns an empty, never-fetched monitor list.
func NewState() State {
	return State{
		Table: shared.NewTable(shared.ListView[linode.ManagedServiceMonitor]{KeyPrefix: "managed-service", EmptyMessage: EmptyMessage}, Columns(), Row),
	}
}

// Props assembles the list view inputs with the given callbacks.
func (s State) Props(updateOrAdd func(linode.ManagedServiceMonitor) tea.Cmd, openDrawer func(int) tea.Cmd) shared.ListProps[linode.ManagedServiceMonitor] {
	return shared.ListProps[linode.ManagedServiceMonitor]{
		Records:     s.Services,
		Loading:     s.Loading,
		LastUpdated: s.LastUpdated,
		Errors:      s.Errors,
		UpdateOrAdd: updateOrAdd,
		OpenDrawer:  openDrawer,
	}
}

// LoadServices fetches every Managed Service monitor.
func LoadServices(ctx context.Context, client *linode.Client, pageSize int) ([]linode.ManagedServiceMonitor, error) {
	if client == nil {
		return nil, nil
	}
	return linode.ListAll(ctx, pageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedServiceMonitor], error) {
		return client.ListServices(ctx, p, nil)
	})
}

// PerformAction runs a lifecycle transition on a monitor. enable and
// disable return the updated monitor; delete returns nil.
func PerformAction(ctx context.Context, client *linode.Client, action string, id int) (*linode.ManagedServiceMonitor, error) {
	switch action {
	case "enable":
		return client.EnableServiceMonitor(ctx, id)
	case "disable":
		return client.DisableServiceMonitor(ctx, id)
	case "delete":
		return nil, client.DeleteServiceMonitor(ctx, id)
	default:
		return nil, fmt.Errorf("unknown service action %q", action)
	}
}

// UpdateOrAdd replaces the monitor with the same ID or appends it.
func UpdateOrAdd(list []linode.ManagedServiceMonitor, svc linode.ManagedServiceMonitor) []linode.ManagedServiceMonitor {
	out := make([]linode.ManagedServiceMonitor, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].ID == svc.ID {
			out[i] = svc
			return out
		}
	}
	return append(out, svc)
}

// Remove drops the monitor with the given ID.
func Remove(list []linode.ManagedServiceMonitor, id int) []linode.ManagedServiceMonitor {
	out := make([]linode.ManagedServiceMonitor, 0, len(list))
	for _, svc := range list {
		if svc.ID != id {
			out = append(out, svc)
		}
	}
	return out
}

// CountByStatus tallies monitors per status.
func CountByStatus(list []linode.ManagedServiceMonitor) map[linode.ServiceStatus]int {
	counts := make(map[linode.ServiceStatus]int)
	for _, svc := range list {
		counts[svc.Status]++
	}
	return counts
}
