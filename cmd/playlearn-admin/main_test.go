package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"PLAYLEARN_PRIMARY__ENV":                 "test",
		"PLAYLEARN_SERVER__PORT":                 "0",
		"PLAYLEARN_SERVER__READ_TIMEOUT":         "5",
		"PLAYLEARN_SERVER__WRITE_TIMEOUT":        "5",
		"PLAYLEARN_SERVER__IDLE_TIMEOUT":         "5",
		"PLAYLEARN_SERVER__CORS_ALLOWED_ORIGINS": "*",
		"PLAYLEARN_DATABASE__DRIVER":             "sqlite",
		"PLAYLEARN_DATABASE__SQLITE_PATH":        filepath.Join(t.TempDir(), "cli.db"),
		"PLAYLEARN_AUTH__SECRET_KEY":             "sk_test_dummy",
		"PLAYLEARN_REDIS__ADDRESS":               "",
	} {
		t.Setenv(k, v)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateSQLite(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)
}

func TestAdminBootstrapIsIdempotent(t *testing.T) {
	setupEnv(t)

	for range 2 {
		out, err := run(t, "admin", "bootstrap")
		require.NoError(t, err)

		var admin map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &admin))
		assert.Equal(t, "admin@playlearnkids.com", admin["email"])
		assert.Equal(t, true, admin["isActive"])
	}
}

func TestAdminCreateRequiresFlags(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "admin", "create", "--email", "x@example.com")
	assert.ErrorContains(t, err, "name")
}

func TestUsersCheck(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "users", "check")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["success"])
	assert.Contains(t, res, "details")
}

func TestUnknownCommand(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "purge")
	assert.Error(t, err)
}
