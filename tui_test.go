package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noelruault/lazylinode/internal/config"
	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

func managedMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /managed/contacts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":1,"name":"Jane","email":"jane@example.com","group":"ops"}]`, 1))
	})
	mux.HandleFunc("GET /managed/services", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":4,"label":"web","status":"ok","service_type":"url","address":"https://example.com","timeout":30}]`, 1))
	})
	mux.HandleFunc("GET /managed/credentials", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"errors":[{"reason":"Unauthorized"}]}`)
	})
	mux.HandleFunc("GET /managed/linode-settings", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":9,"label":"db-1","ssh":{"access":true,"user":"root","ip":"any","port":22}}]`, 1))
	})
	mux.HandleFunc("GET /images", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":"linode/debian12","label":"Debian 12","created_by":"linode","is_public":true},{"id":"private/5","label":"golden","created_by":"me"}]`, 2))
	})
	return mux
}

func newTestModel(t *testing.T, mux *http.ServeMux) (model, *fakeAPI) {
	t.Helper()
	api := newFakeAPI(t, mux)
	cfg := &config.Config{APIRoot: api.URL, PageSize: 100, Timeout: time.Second, CloudManagerURL: config.DefaultCloudManagerURL}
	client := linode.NewClientWithHTTPClient(api.URL, "t", api.Client())
	return initialModel(context.Background(), cfg, client), api
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model after the first load completed.
func loaded(t *testing.T, mux *http.ServeMux) (model, *fakeAPI) {
	t.Helper()
	m, api := newTestModel(t, mux)
	m, _ = update(t, m, m.loadDashboard())
	m, _ = update(t, m, m.loadImages())
	return m, api
}

func TestInitialModelShowsLoading(t *testing.T) {
	m, _ := newTestModel(t, managedMux())
	assert.Equal(t, shared.RenderLoading, m.contacts.Table.Content().Kind)
	assert.Contains(t, m.View(), "Loading...")
}

func TestDashboardLoadsEveryList(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m, api := newTestModel(t, managedMux())
	msg := m.fetchDashboard()
	api.Close()

	assert.NoError(t, msg.contacts.err)
	assert.NoError(t, msg.services.err)
	assert.NoError(t, msg.settings.err)
	var respErr *linode.ResponseError
	require.ErrorAs(t, msg.credentials.err, &respErr)

	m, _ = update(t, m, msg)
	assert.Equal(t, shared.RenderRows, m.contacts.Table.Content().Kind)
	assert.Equal(t, shared.RenderRows, m.services.Table.Content().Kind)
	assert.Equal(t, shared.RenderRows, m.settings.Table.Content().Kind)
	assert.Equal(t, shared.RenderError, m.credentials.Table.Content().Kind)
	assert.Equal(t, "Unauthorized", m.credentials.Table.Content().Placeholder.Message)
	assert.True(t, m.credentials.LastUpdated.IsZero())
}

func TestTabCyclesScreens(t *testing.T) {
	m, _ := newTestModel(t, managedMux())

	var seen []screen
	for range listScreens {
		seen = append(seen, m.currentScreen)
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, listScreens, seen)
	assert.Equal(t, contactsScreen, m.currentScreen)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, imagesScreen, m.currentScreen)

	m, _ = update(t, m, runes("?"))
	assert.Equal(t, helpScreen, m.currentScreen)
	assert.Contains(t, m.View(), "images: cycle all / public / private")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, imagesScreen, m.currentScreen)
}

func TestRefreshKeepsRowsVisible(t *testing.T) {
	m, _ := loaded(t, managedMux())

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.contacts.Loading)
	assert.Equal(t, shared.RenderRows, m.contacts.Table.Content().Kind)

	m, _ = update(t, m, cmd())
	assert.False(t, m.contacts.Loading)
	assert.Len(t, m.contacts.Contacts, 1)
}

func TestCreateContactThroughDrawer(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("POST /managed/contacts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":2,"name":"Al","email":"al@example.com"}`)
	})
	m, api := loaded(t, mux)

	m, _ = update(t, m, runes("n"))
	require.True(t, m.contacts.Drawer.IsOpen)
	m, _ = update(t, m, runes("Al"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, runes("al@example.com"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.contacts.Drawer.Submitting)

	m, cmd = update(t, m, cmd())
	assert.False(t, m.contacts.Drawer.IsOpen)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	require.Len(t, m.contacts.Contacts, 2)
	assert.Equal(t, "Al", m.contacts.Contacts[1].Name)

	calls := api.recorded()
	last := calls[len(calls)-1]
	assert.Equal(t, http.MethodPost, last.method)
	assert.JSONEq(t, `{"name":"Al","email":"al@example.com"}`, last.body)
}

func TestInvalidContactStaysInDrawer(t *testing.T) {
	m, api := loaded(t, managedMux())
	before := len(api.recorded())

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("A"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.True(t, m.contacts.Drawer.IsOpen)
	assert.NotNil(t, m.contacts.Drawer.Errors)
	assert.Len(t, api.recorded(), before)
}

func TestEditContactUsesOpenDrawerCallback(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("PUT /managed/contacts/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"name":"Jane Doe","email":"jane@example.com","group":"ops"}`)
	})
	m, _ := loaded(t, mux)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, openDrawerMsg{id: 1}, msg)

	m, _ = update(t, m, msg)
	require.True(t, m.contacts.Drawer.IsOpen)
	assert.Equal(t, 1, m.contacts.Drawer.EditingID)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = update(t, m, cmd())
	m, _ = update(t, m, cmd())

	require.Len(t, m.contacts.Contacts, 1)
	assert.Equal(t, "Jane Doe", m.contacts.Contacts[0].Name)
}

func TestDeleteServiceNeedsConfirmation(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("DELETE /managed/services/4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	m, _ := loaded(t, mux)
	m.currentScreen = servicesScreen

	m, cmd := update(t, m, runes("x"))
	assert.Nil(t, cmd)
	require.True(t, m.services.ShowingConfirmation)
	assert.Contains(t, m.View(), "monitor web?")

	m, _ = update(t, m, runes("n"))
	assert.False(t, m.services.ShowingConfirmation)
	assert.Len(t, m.services.Services, 1)

	m, _ = update(t, m, runes("x"))
	m, cmd = update(t, m, runes("y"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Empty(t, m.services.Services)
	assert.Equal(t, shared.RenderEmpty, m.services.Table.Content().Kind)
	assert.Contains(t, m.statusMessage, "Deleted monitor 4")
}

func TestDisableServiceUpdatesRow(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("POST /managed/services/4/disable", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":4,"label":"web","status":"disabled","service_type":"url","address":"https://example.com","timeout":30}`)
	})
	m, _ := loaded(t, mux)
	m.currentScreen = servicesScreen

	m, cmd := update(t, m, runes("d"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, linode.ServiceStatusDisabled, m.services.Services[0].Status)
	row, ok := m.services.Table.Selected()
	require.True(t, ok)
	assert.Equal(t, linode.ServiceStatusDisabled, row.Record.Status)
}

func TestRevokeCredential(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("POST /managed/credentials/7/revoke", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	m, _ := newTestModel(t, mux)
	m, _ = update(t, m, credentialsLoadedMsg{credentials: []linode.ManagedCredential{{ID: 7, Label: "db"}}})
	m.currentScreen = credentialsScreen

	m, _ = update(t, m, runes("x"))
	require.True(t, m.credentials.ShowingConfirmation)
	m, cmd := update(t, m, runes("y"))
	m, _ = update(t, m, cmd())

	assert.Empty(t, m.credentials.Credentials)
	assert.Equal(t, "Revoked credential 7", m.statusMessage)
}

func TestToggleSSHAccess(t *testing.T) {
	mux := managedMux()
	mux.HandleFunc("PUT /managed/linode-settings/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":9,"label":"db-1","ssh":{"access":false,"user":"root","ip":"any","port":22}}`)
	})
	m, _ := loaded(t, mux)
	m.currentScreen = settingsScreen

	m, cmd := update(t, m, runes("a"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.False(t, m.settings.Settings[0].SSH.Access)
	assert.Equal(t, "SSH access disabled for db-1", m.statusMessage)
}

func TestImageFilterKeys(t *testing.T) {
	m, _ := loaded(t, managedMux())
	m.currentScreen = imagesScreen
	require.Len(t, m.images.Images, 2)

	m, _ = update(t, m, runes("v"))
	assert.Equal(t, linode.VisibilityPublic, m.images.Visibility)
	assert.Len(t, m.images.Images, 1)

	m, _ = update(t, m, runes("v"))
	row, ok := m.images.Table.Selected()
	require.True(t, ok)
	assert.Equal(t, "private/5", row.Record.ID)

	m, _ = update(t, m, runes("s"))
	assert.True(t, m.images.HideKube)
	assert.Contains(t, m.View(), "system kube images: hidden")
}

func TestImagesKeepVimNavigation(t *testing.T) {
	m, _ := loaded(t, managedMux())
	m.currentScreen = imagesScreen
	require.Len(t, m.images.Images, 2)

	m, _ = update(t, m, runes("j"))
	row, ok := m.images.Table.Selected()
	require.True(t, ok)
	assert.Equal(t, "private/5", row.Record.ID)

	m, _ = update(t, m, runes("k"))
	row, ok = m.images.Table.Selected()
	require.True(t, ok)
	assert.Equal(t, "linode/debian12", row.Record.ID)
	assert.False(t, m.images.HideKube)
}

func TestCopyAndOpen(t *testing.T) {
	var copied, opened string
	oldCopy, oldOpen := copyText, openURL
	copyText = func(s string) error { copied = s; return nil }
	openURL = func(s string) error { opened = s; return nil }
	defer func() { copyText, openURL = oldCopy, oldOpen }()

	m, _ := loaded(t, managedMux())

	m, _ = update(t, m, runes("y"))
	assert.Equal(t, "1", copied)
	assert.Equal(t, "Copied to clipboard: 1", m.statusMessage)

	m.currentScreen = settingsScreen
	m, _ = update(t, m, runes("o"))
	assert.Equal(t, config.DefaultCloudManagerURL+"/linodes/9", opened)

	openURL = func(string) error { return errors.New("no browser") }
	m, _ = update(t, m, runes("o"))
	assert.Contains(t, m.statusMessage, "no browser")
}
