package credentials

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// apiTimeLayout is the timestamp format of the v4 API (UTC, no zone suffix).
const apiTimeLayout = "2006-01-02T15:04:05"

func Columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 8},
		{Title: "CREDENTIAL", Width: 40},
		{Title: "LAST DECRYPTED", Width: 22},
	}
}

// Row formats one credential.
func Row(r shared.Row[linode.ManagedCredential]) table.Row {
	c := r.Record
	return table.Row{
		strconv.Itoa(c.ID),
		shared.Truncate(c.Label, 40),
		LastDecrypted(c.LastDecrypted, time.Now()),
	}
}

// LastDecrypted humanizes an API timestamp relative to now. Credentials
// that were never decrypted show "Never".
func LastDecrypted(ts string, now time.Time) string {
	if ts == "" {
		return "Never"
	}
	t, err := time.ParseInLocation(apiTimeLayout, ts, time.UTC)
	if err != nil {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// RenderList renders the credential list.
func RenderList(st State) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("Managed Credentials") + "\n\n")
	b.WriteString(st.Table.View() + "\n")
	if !st.LastUpdated.IsZero() {
		b.WriteString(shared.HintStyle.Render(fmt.Sprintf("\n%d credentials, updated %s",
			len(st.Credentials), humanize.Time(st.LastUpdated))))
	}
	return b.String()
}

// RenderConfirmation renders the y/n prompt before revoking.
func RenderConfirmation(st State) string {
	if !st.ShowingConfirmation {
		return ""
	}
	label := Label(st.Credentials, st.ConfirmCredentialID)
	if label == "" {
		label = strconv.Itoa(st.ConfirmCredentialID)
	}
	return fmt.Sprintf("%s credential %s? Monitors using it will stop working.\n\n(y)es / (n)o",
		shared.ErrorStyle.Bold(true).Render("Revoke"), label)
}
