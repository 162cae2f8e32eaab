package images

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

func Columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 30},
		{Title: "LABEL", Width: 28},
		{Title: "VISIBILITY", Width: 10},
		{Title: "CREATED BY", Width: 14},
		{Title: "SIZE", Width: 9},
		{Title: "VENDOR", Width: 10},
	}
}

// Row formats one image.
func Row(r shared.Row[linode.Image]) table.Row {
	img := r.Record
	label := img.Label
	if img.Deprecated {
		label += " (deprecated)"
	}
	return table.Row{
		shared.Truncate(img.ID, 30),
		shared.Truncate(label, 28),
		VisibilityLabel(img.IsPublic),
		shared.Truncate(shared.OrDash(img.CreatedBy), 14),
		Size(img.Size),
		shared.Truncate(shared.OrDash(img.Vendor), 10),
	}
}

// VisibilityLabel names an image's public flag.
func VisibilityLabel(public bool) string {
	if public {
		return string(linode.VisibilityPublic)
	}
	return string(linode.VisibilityPrivate)
}

// Size humanizes an image size given in MB.
func Size(mb int) string {
	if mb <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(mb) * 1024 * 1024)
}

// FilterSummary describes the active filters.
func FilterSummary(st State) string {
	v := "all"
	if st.Visibility != "" {
		v = string(st.Visibility)
	}
	kube := "shown"
	if st.HideKube {
		kube = "hidden"
	}
	return fmt.Sprintf("visibility: %s  system kube images: %s", v, kube)
}

// RenderList renders the image list with its filter line.
func RenderList(st State) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("Images") + "  " + shared.HintStyle.Render(FilterSummary(st)) + "\n\n")
	b.WriteString(st.Table.View() + "\n")
	if !st.LastUpdated.IsZero() {
		b.WriteString(shared.HintStyle.Render(fmt.Sprintf("\n%d of %d images, updated %s",
			len(st.Images), len(st.All), humanize.Time(st.LastUpdated))))
	}
	return b.String()
}
