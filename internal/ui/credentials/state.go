package credentials

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// EmptyMessage is shown once credentials were fetched and there are none.
const EmptyMessage = "You don't have any Credentials on your account."

// State contains credential UI and data state.
type State struct {
	Credentials []linode.ManagedCredential
	Loading     bool
	LastUpdated time.Time
	Errors      linode.APIErrors
	Table       *shared.Table[linode.ManagedCredential]

	ShowingConfirmation bool
	ConfirmCredentialID int
}

func NewState() State {
	return State{
		Table: shared.NewTable(shared.ListView[linode.ManagedCredential]{KeyPrefix: "managed-credential", EmptyMessage: EmptyMessage}, Columns(), Row),
	}
}

// Props assembles the list view inputs with the given callbacks.
func (s State) Props(updateOrAdd func(linode.ManagedCredential) tea.Cmd, openDrawer func(int) tea.Cmd) shared.ListProps[linode.ManagedCredential] {
	return shared.ListProps[linode.ManagedCredential]{
		Records:     s.Credentials,
		Loading:     s.Loading,
		LastUpdated: s.LastUpdated,
		Errors:      s.Errors,
		UpdateOrAdd: updateOrAdd,
		OpenDrawer:  openDrawer,
	}
}

// LoadCredentials fetches every Managed credential.
func LoadCredentials(ctx context.Context, client *linode.Client, pageSize int) ([]linode.ManagedCredential, error) {
	if client == nil {
		return nil, nil
	}
	return linode.ListAll(ctx, pageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedCredential], error) {
		return client.ListCredentials(ctx, p, nil)
	})
}

// Remove drops the credential with the given ID. Revoked credentials are
// no longer listed by the API.
func Remove(list []linode.ManagedCredential, id int) []linode.ManagedCredential {
	out := make([]linode.ManagedCredential, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Label returns the label of the credential with the given ID.
func Label(list []linode.ManagedCredential, id int) string {
	for _, c := range list {
		if c.ID == id {
			return c.Label
		}
	}
	return ""
}
