package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func useTempStore(t *testing.T, driver string) {
	t.Helper()
	t.Setenv("STORE_DRIVER", driver)
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGO_URL", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestServicesCommand(t *testing.T) {
	out := runCLI(t, "services")
	assert.Contains(t, out, "Medical Evaluations")
	assert.Contains(t, out, "graduation-cap")

	var services []map[string]string
	require.NoError(t, json.Unmarshal([]byte(runCLI(t, "services", "--json")), &services))
	assert.Len(t, services, 6)
}

func TestStatusCommands(t *testing.T) {
	useTempStore(t, "file")

	id := strings.TrimSpace(runCLI(t, "status", "add", "cli-acme"))
	assert.Len(t, id, 36)

	out := runCLI(t, "status", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "cli-acme")

	var checks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(runCLI(t, "status", "list", "--json")), &checks))
	require.Len(t, checks, 1)
	assert.Equal(t, id, checks[0]["id"])
}

func TestContactListEmpty(t *testing.T) {
	useTempStore(t, "sqlite")

	out := runCLI(t, "contact", "list", "--json")
	assert.JSONEq(t, `[]`, out)
}

func TestMigrateCommand(t *testing.T) {
	useTempStore(t, "sqlite")
	out := runCLI(t, "migrate")
	assert.Contains(t, out, "ensured status_checks")
	assert.Contains(t, out, "ensured contact_messages")

	useTempStore(t, "file")
	assert.Contains(t, runCLI(t, "migrate"), "nothing to migrate")
}

func TestStatusAddRequiresName(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"status", "add"})
	assert.Error(t, cmd.Execute())
}
