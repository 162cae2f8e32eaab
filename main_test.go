package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/logging"
)

type apiCall struct {
	method string
	path   string
	filter string
	body   string
}

type fakeAPI struct {
	*httptest.Server
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

// newFakeAPI serves mux and records every request it receives.
func newFakeAPI(t *testing.T, mux *http.ServeMux) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, filter: r.Header.Get("X-Filter"), body: string(body)})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func page(data string, n int) string {
	return fmt.Sprintf(`{"data":%s,"page":1,"pages":1,"results":%d}`, data, n)
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LINODE_TOKEN", "")
	t.Setenv("LAZYLINODE_TOKEN", "")
	t.Chdir(t.TempDir())
}

// execute runs the CLI against api and returns stdout.
func execute(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if api != nil {
		args = append([]string{"--api-root", api.URL, "--token", "test-token"}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, path := range [][]string{
		{"managed", "services", "list"},
		{"managed", "services", "delete"},
		{"managed", "credentials", "revoke"},
		{"managed", "settings", "update"},
		{"managed", "contacts", "update"},
		{"images", "list"},
		{"config", "write"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestRootWithoutTerminalPrintsHelp(t *testing.T) {
	out, err := execute(t, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "launches the interactive TUI")
}

func TestUnsupportedOutputFormat(t *testing.T) {
	_, err := execute(t, nil, "config", "show", "-o", "yaml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestServicesListJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /managed/services", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":4,"label":"web","status":"ok","service_type":"url","address":"https://example.com","timeout":30}]`, 1))
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "services", "list", "--status", "ok", "-o", "json")
	require.NoError(t, err)

	var got []linode.ManagedServiceMonitor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want := []linode.ManagedServiceMonitor{{ID: 4, Label: "web", Status: linode.ServiceStatusOK, ServiceType: linode.ServiceTypeURL, Address: "https://example.com", Timeout: 30}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("services mismatch (-want +got):\n%s", diff)
	}

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"status":"ok"}`, calls[0].filter)
}

func TestServicesListTable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /managed/services", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":4,"label":"web","status":"problem","service_type":"tcp","address":"10.0.0.1:22","timeout":5}]`, 1))
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "services", "list")
	require.NoError(t, err)
	for _, want := range []string{"ID", "MONITOR", "web", "problem", "TCP", "10.0.0.1:22", "5s"} {
		assert.Contains(t, out, want)
	}
}

func TestServicesDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /managed/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "services", "delete", "4")
	require.NoError(t, err)
	assert.Equal(t, "Monitor 4 deleted.\n", out)

	_, err = execute(t, api, "managed", "services", "delete", "abc")
	assert.ErrorContains(t, err, `invalid ID "abc"`)
	assert.Len(t, api.recorded(), 1)
}

func TestServicesCreateRejectedLocally(t *testing.T) {
	api := newFakeAPI(t, http.NewServeMux())

	_, err := execute(t, api, "managed", "services", "create", "--label", "ab", "--address", "https://example.com")
	var valErr *linode.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, api.recorded())
}

func TestCredentialsRevokeAndAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /managed/credentials/7/revoke", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	mux.HandleFunc("POST /managed/credentials/8/revoke", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":[{"reason":"Not found"}]}`)
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "credentials", "revoke", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Credential 7 revoked.")

	_, err = execute(t, api, "managed", "credentials", "revoke", "8")
	var respErr *linode.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
}

func TestSettingsUpdateSendsOnlyGivenFlags(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /managed/linode-settings/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":9,"label":"db","ssh":{"access":true,"user":"root","ip":"any","port":2222}}`)
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "settings", "update", "9", "--ssh-port", "2222", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"port": 2222`)

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"ssh":{"port":2222}}`, calls[0].body)
}

func TestContactsUpdateMergesCurrentValues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /managed/contacts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[{"id":2,"name":"Jane","email":"jane@example.com","phone":{"primary":"555-0100"}}]`, 1))
	})
	mux.HandleFunc("PUT /managed/contacts/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":2,"name":"Jane","email":"jane@example.com","group":"ops","phone":{"primary":"555-0100"}}`)
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "managed", "contacts", "update", "2", "--group", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "ops")

	calls := api.recorded()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"name":"Jane","email":"jane@example.com","group":"ops","phone":{"primary":"555-0100"}}`, calls[1].body)

	_, err = execute(t, api, "managed", "contacts", "update", "3", "--group", "ops")
	assert.ErrorContains(t, err, "contact 3 not found")
}

func TestContactsCreateMissingEmail(t *testing.T) {
	api := newFakeAPI(t, http.NewServeMux())

	_, err := execute(t, api, "managed", "contacts", "create", "--name", "Jane")
	var valErr *linode.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "email", valErr.Errors[0].Field)
	assert.Empty(t, api.recorded())
}

func TestImagesListFilters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /images", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page(`[
			{"id":"linode/lke-1.30","label":"Kubernetes 1.30","created_by":"linode","is_public":true},
			{"id":"private/2","label":"golden","created_by":"me","is_public":false},
			{"id":"private/1","label":"kube-node","created_by":"me","is_public":false},
			{"id":"private/3","label":"kube-system","created_by":"linode","is_public":false}
		]`, 4))
	})
	api := newFakeAPI(t, mux)

	out, err := execute(t, api, "images", "list", "--visibility", "private", "--hide-kube", "-o", "json")
	require.NoError(t, err)

	var got []linode.Image
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	ids := make([]string, len(got))
	for i, img := range got {
		ids[i] = img.ID
	}
	assert.Equal(t, []string{"private/1", "private/2"}, ids)

	_, err = execute(t, api, "images", "list", "--visibility", "shared")
	assert.ErrorContains(t, err, "unsupported visibility")
}

func TestConfigShowRedactsToken(t *testing.T) {
	out, err := execute(t, nil, "--token", "very-secret", "--page-size", "50", "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "very-secret")
	assert.Contains(t, out, "page_size: 50")
}

func TestConfigWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	out, err := execute(t, nil, "--page-size", "200", "config", "write", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: 200")
}

func TestSetupLoggingClosesPreviousLogFile(t *testing.T) {
	t.Cleanup(func() { logging.L.SetOutput(os.Stderr) })
	path := filepath.Join(t.TempDir(), "lazylinode.log")
	opts := &rootOptions{}

	require.NoError(t, opts.setupLogging("info", path, io.Discard))
	first, ok := opts.logCloser.(*os.File)
	require.True(t, ok)

	require.NoError(t, opts.setupLogging("debug", path, io.Discard))
	_, err := first.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)

	require.NoError(t, opts.setupLogging("info", "", io.Discard))
	assert.NoError(t, opts.logCloser.Close())
}
