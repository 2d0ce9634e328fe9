package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ALLOWED_ORIGINS", "LOG_LEVEL", "AI_PROVIDER",
		"API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 180*time.Second, cfg.Server.WriteTimeout)
	assert.EqualValues(t, 64<<10, cfg.Server.MaxBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 90*time.Second, cfg.AI.TextTimeout)
	assert.Equal(t, 60*time.Second, cfg.AI.ImageTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.MinioEnabled())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  writeTimeout: 2m
  allowedOrigins: ["https://drcalm.example.com"]
log:
  level: debug
ai:
  provider: openai
  textTimeout: 30s
  openai:
    apiKey: sk-file
    textModel: gpt-4o
minio:
  endpoint: minio:9000
  bucketName: assets
illustrations:
  uti: asset:uti.gif
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://drcalm.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.TextTimeout)
	assert.Equal(t, "sk-file", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.AI.OpenAI.TextModel)
	assert.True(t, cfg.MinioEnabled())
	assert.Equal(t, "assets", cfg.Minio.BucketName)
	assert.Equal(t, "asset:uti.gif", cfg.Illustrations["uti"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
ai:
  gemini:
    apiKey: from-file
`)
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.AI.Gemini.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint)
	assert.True(t, cfg.Minio.UseSSL)
}

func TestLoad_APIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.AI.Gemini.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeConfig(t, "server: [port"))
		assert.Error(t, err)
	})

	t.Run("bad port env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "eighty")
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "PORT")
	})

	t.Run("missing key", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "GEMINI_API_KEY")
	})
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	var cfg Config
	cfg.setDefaults()
	cfg.Server.Port = 70000
	cfg.Log.Level = "loud"
	cfg.AI.Provider = "claude"
	cfg.Illustrations = map[string]string{"UTI": "asset:uti.gif"}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.port", "log.level", "ai.provider", "illustrations.UTI"} {
		assert.ErrorContains(t, err, want)
	}
}
