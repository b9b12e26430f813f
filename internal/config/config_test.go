package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotomize/xrayctl/internal/xray"
	"github.com/robotomize/xrayctl/internal/xrayclient"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	pth := filepath.Join(t.TempDir(), "xrayctl.yaml")
	require.NoError(t, os.WriteFile(pth, []byte(content), 0o600))

	return pth
}

func noEnv(string) string { return "" }

func TestLoad_File(t *testing.T) {
	t.Parallel()

	pth := writeConfig(
		t, `
xray:
  url: https://eu.xray.cloud.getxray.app
  client_id: id
  client_secret: secret
jira:
  url: https://acme.atlassian.net
  basic_token: dXNlcjp0b2tlbg==
  requests_per_second: 2.5
log:
  level: debug
  format: json
`,
	)

	cfg, err := load(pth, noEnv)
	require.NoError(t, err)

	expected := &Config{
		Xray: XrayConfig{URL: "https://eu.xray.cloud.getxray.app", ClientID: "id", ClientSecret: "secret"},
		Jira: JiraConfig{URL: "https://acme.atlassian.net", BasicToken: "dXNlcjp0b2tlbg==", RequestsPerSecond: 2.5},
		Log:  LogConfig{Level: "debug", Format: LogFormatJSON},
	}
	assert.Equal(t, expected, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load("", noEnv)
	require.NoError(t, err)

	assert.Equal(t, xrayclient.DefaultBaseURL, cfg.Xray.URL)
	assert.Equal(t, DefaultRequestsPerSecond, cfg.Jira.RequestsPerSecond)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Parallel()

	pth := writeConfig(
		t, `
xray:
  client_id: from-file
  client_secret: from-file
jira:
  basic_token: from-file
`,
	)

	env := map[string]string{
		"XRAY_CLIENT_SECRET":       "from-env",
		"JIRA_URL":                 "https://env.atlassian.net",
		"JIRA_REQUESTS_PER_SECOND": "10",
	}

	cfg, err := load(pth, func(key string) string { return env[key] })
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Xray.ClientID)
	assert.Equal(t, "from-env", cfg.Xray.ClientSecret)
	assert.Equal(t, "from-file", cfg.Jira.BasicToken)
	assert.Equal(t, "https://env.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, 10.0, cfg.Jira.RequestsPerSecond)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		field   string
	}{
		{name: "test_bad_level", content: "log:\n  level: loud\n", field: "log.level"},
		{name: "test_bad_format", content: "log:\n  format: xml\n", field: "log.format"},
		{name: "test_negative_rate", content: "jira:\n  requests_per_second: -1\n", field: "jira.requests_per_second"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				_, err := load(writeConfig(t, tc.content), noEnv)

				var cfgErr *xray.ConfigError
				require.True(t, errors.As(err, &cfgErr), "got %v", err)
				assert.Equal(t, tc.field, cfgErr.Field)
			},
		)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := load(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	require.Error(t, err)
}

func TestFindConfigFile_ParentTraversal(t *testing.T) {
	wd, _ := os.Getwd()
	defer func() { _ = os.Chdir(wd) }()

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	configPath := filepath.Join(tmp, ".xrayctl.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("xray:\n  client_id: id\n"), 0o600))

	subdir := filepath.Join(tmp, "reports", "junit")
	require.NoError(t, os.MkdirAll(subdir, 0o750))
	require.NoError(t, os.Chdir(subdir))

	assert.Equal(t, configPath, findConfigFile())
}
