package settings

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// EmptyMessage is shown once settings were fetched and there are none.
const EmptyMessage = "You don't have any Linodes on your account."

// State contains per-Linode Managed settings UI and data state.
type State struct {
	Settings    []linode.ManagedLinodeSetting
	Loading     bool
	LastUpdated time.Time
	Errors      linode.APIErrors
	Table       *shared.Table[linode.ManagedLinodeSetting]
}

func NewState() State {
	return State{
		Table: shared.NewTable(shared.ListView[linode.ManagedLinodeSetting]{KeyPrefix: "linode-setting", EmptyMessage: EmptyMessage}, Columns(), Row),
	}
}

// Props assembles the list view inputs with the given callbacks.
func (s State) Props(updateOrAdd func(linode.ManagedLinodeSetting) tea.Cmd, openDrawer func(int) tea.Cmd) shared.ListProps[linode.ManagedLinodeSetting] {
	return shared.ListProps[linode.ManagedLinodeSetting]{
		Records:     s.Settings,
		Loading:     s.Loading,
		LastUpdated: s.LastUpdated,
		Errors:      s.Errors,
		UpdateOrAdd: updateOrAdd,
		OpenDrawer:  openDrawer,
	}
}

// LoadSettings fetches the Managed settings of every Linode.
func LoadSettings(ctx context.Context, client *linode.Client, pageSize int) ([]linode.ManagedLinodeSetting, error) {
	if client == nil {
		return nil, nil
	}
	return linode.ListAll(ctx, pageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedLinodeSetting], error) {
		return client.ListLinodeSettings(ctx, p, nil)
	})
}

// ToggleSSHAccess flips SSH access for one Linode and returns the stored settings.
func ToggleSSHAccess(ctx context.Context, client *linode.Client, s linode.ManagedLinodeSetting) (*linode.ManagedLinodeSetting, error) {
	access := !s.SSH.Access
	return client.UpdateLinodeSettings(ctx, s.ID, linode.LinodeSettingsPayload{
		SSH: linode.SSHSettingPayload{Access: &access},
	})
}

// UpdateOrAdd replaces the settings with the same Linode ID or appends them.
func UpdateOrAdd(list []linode.ManagedLinodeSetting, s linode.ManagedLinodeSetting) []linode.ManagedLinodeSetting {
	out := make([]linode.ManagedLinodeSetting, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].ID == s.ID {
			out[i] = s
			return out
		}
	}
	return append(out, s)
}
