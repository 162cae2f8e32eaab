package settings

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

func TestRow(t *testing.T) {
	row := Row(shared.Row[linode.ManagedLinodeSetting]{Record: linode.ManagedLinodeSetting{
		Label: "web-1",
		SSH:   linode.ManagedSSHSetting{Access: true, User: "root", IP: "any", Port: 22},
	}})
	assert.Equal(t, []string{"web-1", "-", "enabled", "root", "any", "22"}, []string(row))
}

func TestRenderList(t *testing.T) {
	st := NewState()
	st.Loading = true
	st.Table.SetProps(st.Props(nil, nil))
	assert.Equal(t, shared.RenderLoading, st.Table.Content().Kind)

	st.Loading = false
	st.LastUpdated = time.Now()
	st.Settings = []linode.ManagedLinodeSetting{
		{ID: 1, Label: "a", SSH: linode.ManagedSSHSetting{Access: true, Port: 22}},
		{ID: 2, Label: "b", SSH: linode.ManagedSSHSetting{Port: 22}},
	}
	st.Table.SetProps(st.Props(nil, nil))
	assert.Contains(t, RenderList(st), "2 Linodes, 1 with SSH access")
}

func TestUpdateOrAdd(t *testing.T) {
	list := []linode.ManagedLinodeSetting{{ID: 1, Label: "a"}}
	assert.Equal(t, []linode.ManagedLinodeSetting{{ID: 1, Label: "A"}}, UpdateOrAdd(list, linode.ManagedLinodeSetting{ID: 1, Label: "A"}))
	assert.Len(t, UpdateOrAdd(list, linode.ManagedLinodeSetting{ID: 2}), 2)
}

func TestToggleSSHAccessSendsOnlyAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/managed/linode-settings/9", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]any{"ssh": map[string]any{"access": false}}, got)
		_, _ = w.Write([]byte(`{"id":9,"label":"db","ssh":{"access":false,"user":"root","ip":"any","port":22}}`))
	}))
	defer server.Close()

	client := linode.NewClientWithHTTPClient(server.URL, "t", server.Client())
	got, err := ToggleSSHAccess(context.Background(), client, linode.ManagedLinodeSetting{ID: 9, SSH: linode.ManagedSSHSetting{Access: true}})
	require.NoError(t, err)
	assert.False(t, got.SSH.Access)
	assert.Equal(t, "db", got.Label)
}
