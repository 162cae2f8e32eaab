package contacts

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// EmptyMessage is shown once contacts were fetched and there are none.
const EmptyMessage = "You don't have any Contacts on your account."

// State contains contact-specific UI and data state.
type State struct {
	Contacts    []linode.ManagedContact
	Loading     bool
	LastUpdated time.Time
	Errors      linode.APIErrors
	Table       *shared.Table[linode.ManagedContact]
	Drawer      *Drawer
}

// NewState returns an empty, never-fetched contact list.
func NewState() State {
	return State{
		Table:  shared.NewTable(shared.ListView[linode.ManagedContact]{KeyPrefix: "managed-contact", EmptyMessage: EmptyMessage}, Columns(), Row),
		Drawer: NewDrawer(),
	}
}

// Props assembles the list view inputs with the given callbacks.
func (s State) Props(updateOrAdd func(linode.ManagedContact) tea.Cmd, openDrawer func(int) tea.Cmd) shared.ListProps[linode.ManagedContact] {
	return shared.ListProps[linode.ManagedContact]{
		Records:     s.Contacts,
		Loading:     s.Loading,
		LastUpdated: s.LastUpdated,
		Errors:      s.Errors,
		UpdateOrAdd: updateOrAdd,
		OpenDrawer:  openDrawer,
	}
}

// LoadContacts fetches every Managed Contact.
func LoadContacts(ctx context.Context, client *linode.Client, pageSize int) ([]linode.ManagedContact, error) {
	if client == nil {
		return nil, nil
	}
	return linode.ListAll(ctx, pageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedContact], error) {
		return client.ListContacts(ctx, p, nil)
	})
}

// UpdateOrAdd returns list with contact replacing the entry of the same ID,
// or appended when there is none. list is not modified.
func UpdateOrAdd(list []linode.ManagedContact, contact linode.ManagedContact) []linode.ManagedContact {
	out := make([]linode.ManagedContact, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].ID == contact.ID {
			out[i] = contact
			return out
		}
	}
	return append(out, contact)
}

// Find returns the contact with the given ID.
func Find(list []linode.ManagedContact, id int) (linode.ManagedContact, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return linode.ManagedContact{}, false
}

// Groups returns the distinct non-empty contact groups in first-seen order.
func Groups(list []linode.ManagedContact) []string {
	seen := map[string]bool{}
	var groups []string
	for _, c := range list {
		if c.Group == "" || seen[c.Group] {
			continue
		}
		seen[c.Group] = true
		groups = append(groups, c.Group)
	}
	return groups
}
