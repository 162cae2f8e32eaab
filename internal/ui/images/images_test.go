package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

func fixtures() []linode.Image {
	return []linode.Image{
		{ID: "linode/ubuntu24.04", Label: "Ubuntu 24.04", CreatedBy: "linode", IsPublic: true},
		{ID: "linode/lke-kube-1.30", Label: "Kubernetes 1.30", CreatedBy: "linode", IsPublic: true},
		{ID: "private/1", Label: "my-kube-node", CreatedBy: "alice", IsPublic: false},
		{ID: "private/2", Label: "golden", CreatedBy: "alice", IsPublic: false},
	}
}

func ids(list []linode.Image) []string {
	out := make([]string, len(list))
	for i, img := range list {
		out[i] = img.ID
	}
	return out
}

func TestVisible(t *testing.T) {
	all := linode.ImagesByID(fixtures())

	assert.Equal(t, []string{"linode/lke-kube-1.30", "linode/ubuntu24.04", "private/1", "private/2"}, ids(Visible(all, "", false)))
	assert.Equal(t, []string{"linode/lke-kube-1.30", "linode/ubuntu24.04"}, ids(Visible(all, linode.VisibilityPublic, false)))
	assert.Equal(t, []string{"private/1", "private/2"}, ids(Visible(all, linode.VisibilityPrivate, true)))
	assert.Equal(t, []string{"linode/ubuntu24.04"}, ids(Visible(all, linode.VisibilityPublic, true)))
	assert.Len(t, all, 4)
}

func TestCycleAndToggle(t *testing.T) {
	st := NewState()
	st.SetImages(fixtures())
	require.Len(t, st.Images, 4)

	st.CycleVisibility()
	assert.Equal(t, linode.VisibilityPublic, st.Visibility)
	assert.Len(t, st.Images, 2)

	st.ToggleHideKube()
	assert.Equal(t, []string{"linode/ubuntu24.04"}, ids(st.Images))

	st.CycleVisibility()
	assert.Equal(t, linode.VisibilityPrivate, st.Visibility)
	assert.Len(t, st.Images, 2)

	st.CycleVisibility()
	assert.Equal(t, linode.Visibility(""), st.Visibility)
	assert.Len(t, st.Images, 3)
	assert.Contains(t, FilterSummary(st), "system kube images: hidden")
}

func TestRenderListEmptyAfterFiltering(t *testing.T) {
	st := NewState()
	st.SetImages([]linode.Image{{ID: "linode/k8s", Label: "kube", CreatedBy: "linode", IsPublic: true}})
	st.LastUpdated = time.Now()
	st.ToggleHideKube()
	st.Table.SetProps(st.Props(nil, nil))

	assert.Equal(t, shared.RenderEmpty, st.Table.Content().Kind)
	out := RenderList(st)
	assert.Contains(t, out, EmptyMessage)
	assert.Contains(t, out, "0 of 1 images")
}

func TestRow(t *testing.T) {
	row := Row(shared.Row[linode.Image]{Record: linode.Image{ID: "private/2", Label: "old", Deprecated: true, Size: 2048}})
	assert.Equal(t, "old (deprecated)", row[1])
	assert.Equal(t, "private", row[2])
	assert.Equal(t, "2.0 GiB", row[4])
	assert.Equal(t, "-", Size(0))
}

func TestLoadImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"linode/debian12","is_public":true}],"page":1,"pages":1,"results":1}`))
	}))
	defer server.Close()

	client := linode.NewClientWithHTTPClient(server.URL, "", server.Client())
	got, err := LoadImages(context.Background(), client, 100)
	require.NoError(t, err)
	assert.Equal(t, []linode.Image{{ID: "linode/debian12", IsPublic: true}}, got)
}
