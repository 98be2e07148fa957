package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	opts := Default()

	assert.Equal(t, "{prefix}p{counter}_{name}", opts.NamingTemplate)
	assert.Empty(t, opts.ParamPrefix)
	assert.False(t, opts.CaseSensitive)
	assert.True(t, opts.RejectInjection)
	assert.Equal(t, 50, opts.GuardPollMillis)
	assert.Equal(t, 30000, opts.GuardMaxWaitMillis)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DRIFTSQL_PARAM_PREFIX", ":")
	t.Setenv("DRIFTSQL_CASE_SENSITIVE", "true")
	t.Setenv("DRIFTSQL_REJECT_INJECTION", "false")
	t.Setenv("DRIFTSQL_GUARD_POLL_MILLIS", "10")

	opts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":", opts.ParamPrefix)
	assert.True(t, opts.CaseSensitive)
	assert.False(t, opts.RejectInjection)
	assert.Equal(t, 10, opts.GuardPollMillis)
	assert.Equal(t, "{prefix}p{counter}_{name}", opts.NamingTemplate, "unset variables keep defaults")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftsql.yaml")
	content := `param_prefix: "@"
naming_template: "{prefix}q{counter}"
null_replacement: "NULL"
guard_max_wait_millis: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "@", opts.ParamPrefix)
	assert.Equal(t, "{prefix}q{counter}", opts.NamingTemplate)
	assert.Equal(t, "NULL", opts.NullReplacement)
	assert.Equal(t, 5000, opts.GuardMaxWaitMillis)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("param_prefix: \"@\"\n"), 0o644))

	t.Setenv("DRIFTSQL_PARAM_PREFIX", "$")

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$", opts.ParamPrefix)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/driftsql.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Validate())

	opts.NamingTemplate = "{prefix}param_{name}"
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{counter}")

	opts.NamingTemplate = ""
	assert.NoError(t, opts.Validate(), "empty template means the built-in default")
}

func TestDump(t *testing.T) {
	out, err := Default().Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "naming_template:")
	assert.Contains(t, out, "reject_injection: true")
}
