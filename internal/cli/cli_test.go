package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Pipeline(t *testing.T) {
	t.Setenv("SAVEDPLACES_MAPS_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p>Reservations: <a href="mailto:owner@example-biz.test?subject=Hi">mail</a></p>
<p>Site by noreply@wixpress.com</p>`))
	}))
	defer site.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprintf(w, `{"result": {"name": "My Restaurant", "website": %q, "formatted_phone_number": "555-0100"}, "status": "OK"}`, site.URL)
	}))
	defer api.Close()
	t.Setenv("SAVEDPLACES_MAPS_BASE_URL", api.URL)

	dir := t.TempDir()
	storeDir := filepath.Join(dir, "places")
	input := filepath.Join(dir, "Want to go.csv")
	output := filepath.Join(dir, "out", "contacts.csv")

	require.NoError(t, os.WriteFile(input, []byte("Title,Note,URL,Comment\n,,,\nMy Restaurant,,https://www.google.com/maps/place/x/data=!1s0x0:0x1a,\n"), 0644))

	out, err := run(t, "resolve", "--store", storeDir, "--input", input, "--api-key", "test-key", "--delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "resolve: 1 ok, 0 skipped, 0 failed")
	assert.FileExists(t, filepath.Join(storeDir, "my_restaurant.json"))

	out, err = run(t, "harvest-emails", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "harvest-emails: 1 ok, 0 skipped, 0 failed")

	// Second run finds emails already present and makes no request
	out, err = run(t, "harvest-emails", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "harvest-emails: 0 ok, 1 skipped, 0 failed")
	assert.Contains(t, out, "my_restaurant (has_emails)")

	out, err = run(t, "export-contacts", "--store", storeDir, "--output", output, "--summary-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"stage": "export-contacts"`)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Name,Address,Phone,Emails\nMy Restaurant,,555-0100,owner@example-biz.test\n", string(data))

	out, err = run(t, "export-contacts", "--store", storeDir, "--output", output, "--no-filter", "--format", "table", "--echo")
	require.NoError(t, err)
	assert.Contains(t, out, "noreply@wixpress.com")
	assert.NotContains(t, out, "export-contacts: 1 ok")
}

func TestCLI_ResolveRequiresAPIKey(t *testing.T) {
	t.Setenv("SAVEDPLACES_MAPS_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := run(t, "resolve", "--store", t.TempDir(), "--input", "missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key")
}

func TestCLI_ResolveMissingInput(t *testing.T) {
	_, err := run(t, "resolve", "--store", t.TempDir(), "--input", filepath.Join(t.TempDir(), "missing.csv"), "--api-key", "k")
	require.Error(t, err)
}

func TestCLI_MissingStore(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := run(t, "harvest-emails", "--store", missing)
	require.Error(t, err)

	_, err = run(t, "export-contacts", "--store", missing)
	require.Error(t, err)

	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_InvalidConfig(t *testing.T) {
	_, err := run(t, "export-contacts", "--store", t.TempDir(), "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.format")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "savedplaces dev\n", out)
}
