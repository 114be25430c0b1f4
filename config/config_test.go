package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 는 Load 가 읽는 환경변수를 비운다. t.Setenv 가 테스트 종료 시 원래 값으로 되돌린다.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SECRET_TOKEN", "PORT", "WECHAT_API_BASE_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.weixin.qq.com", cfg.WeChat.BaseURL)
	assert.Equal(t, "未来传媒", cfg.WeChat.Author)
	assert.Equal(t, 10*time.Second, cfg.WeChat.APITimeout)
	assert.Equal(t, 15*time.Second, cfg.WeChat.ImageFetchTimeout)
	assert.Empty(t, cfg.SecretToken)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, CONFIG_FILE, `
logging:
  level: debug
server:
  port: "9000"
  cors_allowed_origins:
    - https://github.com
wechat:
  base_url: https://wechat.internal/
  author: Relay Bot
  api_timeout: 5s
  image_fetch_timeout: 30s
`)
	t.Setenv("PORT", "7070")
	t.Setenv("SECRET_TOKEN", "s3cr3t")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"https://github.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "https://wechat.internal", cfg.WeChat.BaseURL)
	assert.Equal(t, "Relay Bot", cfg.WeChat.Author)
	assert.Equal(t, 5*time.Second, cfg.WeChat.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.WeChat.ImageFetchTimeout)
	assert.Equal(t, "s3cr3t", cfg.SecretToken)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ENV_FILE, "SECRET_TOKEN=from-dotenv\nWECHAT_API_BASE_URL=http://127.0.0.1:9999\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.SecretToken)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.WeChat.BaseURL)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"PORT": "http"}},
		{name: "bad base url", env: map[string]string{"WECHAT_API_BASE_URL": "not a url"}},
		{name: "timeout too small", yaml: "wechat:\n  api_timeout: 100ms\n"},
		{name: "negative image timeout", yaml: "wechat:\n  image_fetch_timeout: -5s\n"},
		{name: "unknown log level", yaml: "logging:\n  level: verbose\n"},
		{name: "malformed yaml", yaml: "server: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			if tc.yaml != "" {
				writeFile(t, dir, CONFIG_FILE, tc.yaml)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestGetBasePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, CONFIG_FILE, "logging:\n  level: info\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := filepath.EvalSymlinks(GetBasePath())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
