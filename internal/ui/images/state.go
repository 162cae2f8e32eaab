package images

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// EmptyMessage is shown when no image survives the current filters.
const EmptyMessage = "No images match the current filters."

// State contains image UI and data state. All holds every fetched image;
// Images is the filtered, ordered slice the table shows.
type State struct {
	All         map[string]linode.Image
	Images      []linode.Image
	Visibility  linode.Visibility
	HideKube    bool
	Loading     bool
	LastUpdated time.Time
	Errors      linode.APIErrors
	Table       *shared.Table[linode.Image]
}

func NewState() State {
	return State{
		Table: shared.NewTable(shared.ListView[linode.Image]{KeyPrefix: "image", EmptyMessage: EmptyMessage}, Columns(), Row),
	}
}

// Props assembles the list view inputs with the given callbacks.
func (s State) Props(updateOrAdd func(linode.Image) tea.Cmd, openDrawer func(int) tea.Cmd) shared.ListProps[linode.Image] {
	return shared.ListProps[linode.Image]{
		Records:     s.Images,
		Loading:     s.Loading,
		LastUpdated: s.LastUpdated,
		Errors:      s.Errors,
		UpdateOrAdd: updateOrAdd,
		OpenDrawer:  openDrawer,
	}
}

// SetImages replaces the fetched images and reapplies the filters.
func (s *State) SetImages(list []linode.Image) {
	s.All = linode.ImagesByID(list)
	s.Refilter()
}

// Refilter recomputes Images from All.
func (s *State) Refilter() {
	s.Images = Visible(s.All, s.Visibility, s.HideKube)
}

// CycleVisibility steps through all, public and private.
func (s *State) CycleVisibility() {
	switch s.Visibility {
	case "":
		s.Visibility = linode.VisibilityPublic
	case linode.VisibilityPublic:
		s.Visibility = linode.VisibilityPrivate
	default:
		s.Visibility = ""
	}
	s.Refilter()
}

// ToggleHideKube toggles hiding the system Kubernetes images.
func (s *State) ToggleHideKube() {
	s.HideKube = !s.HideKube
	s.Refilter()
}

// Visible applies the visibility filter (empty means all) and, when
// hideKube is set, drops system Kubernetes images. The result is
// ordered by image ID.
func Visible(all map[string]linode.Image, v linode.Visibility, hideKube bool) []linode.Image {
	filtered := all
	if v != "" {
		filtered = linode.FilterByVisibility(filtered, v)
	}
	if hideKube {
		filtered = linode.FilterOutSystemKubeImages(filtered)
	}
	return linode.SortedImages(filtered)
}

// LoadImages fetches every image visible to the account.
func LoadImages(ctx context.Context, client *linode.Client, pageSize int) ([]linode.Image, error) {
	if client == nil {
		return nil, nil
	}
	return linode.ListAll(ctx, pageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.Image], error) {
		return client.ListImages(ctx, p, nil)
	})
}
