package contacts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// Columns are the contact table columns.
func Columns() []table.Column {
	return []table.Column{
		{Title: "NAME", Width: 24},
		{Title: "GROUP", Width: 16},
		{Title: "E-MAIL", Width: 30},
		{Title: "PRIMARY PHONE", Width: 16},
		{Title: "SECONDARY PHONE", Width: 16},
	}
}

// Row formats one contact.
func Row(r shared.Row[linode.ManagedContact]) table.Row {
	c := r.Record
	return table.Row{
		shared.Truncate(c.Name, 24),
		shared.Truncate(shared.OrDash(c.Group), 16),
		shared.Truncate(c.Email, 30),
		shared.OrDash(c.Phone.Primary),
		shared.OrDash(c.Phone.Secondary),
	}
}

// RenderList renders the contact list with its title and footer.
func RenderList(st State) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("Managed Contacts") + "\n\n")
	b.WriteString(st.Table.View() + "\n")
	if !st.LastUpdated.IsZero() {
		b.WriteString(shared.HintStyle.Render(fmt.Sprintf("\n%d contacts, %d groups, updated %s",
			len(st.Contacts), len(Groups(st.Contacts)), humanize.Time(st.LastUpdated))))
	}
	return b.String()
}
