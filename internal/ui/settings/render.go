package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

func Columns() []table.Column {
	return []table.Column{
		{Title: "LINODE", Width: 28},
		{Title: "GROUP", Width: 14},
		{Title: "SSH ACCESS", Width: 10},
		{Title: "USER", Width: 12},
		{Title: "IP", Width: 18},
		{Title: "PORT", Width: 6},
	}
}

// Row formats the settings of one Linode.
func Row(r shared.Row[linode.ManagedLinodeSetting]) table.Row {
	s := r.Record
	return table.Row{
		shared.Truncate(s.Label, 28),
		shared.Truncate(shared.OrDash(s.Group), 14),
		AccessLabel(s.SSH.Access),
		shared.Truncate(shared.OrDash(s.SSH.User), 12),
		shared.OrDash(s.SSH.IP),
		strconv.Itoa(s.SSH.Port),
	}
}

// AccessLabel names an SSH access flag.
func AccessLabel(access bool) string {
	if access {
		return "enabled"
	}
	return "disabled"
}

// RenderList renders the settings list.
func RenderList(st State) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("Linode Settings") + "\n\n")
	b.WriteString(st.Table.View() + "\n")
	if !st.LastUpdated.IsZero() {
		enabled := 0
		for _, s := range st.Settings {
			if s.SSH.Access {
				enabled++
			}
		}
		b.WriteString(shared.HintStyle.Render(fmt.Sprintf("\n%d Linodes, %d with SSH access, updated %s",
			len(st.Settings), enabled, humanize.Time(st.LastUpdated))))
	}
	return b.String()
}
