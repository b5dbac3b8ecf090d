package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "")
	t.Setenv("TURN_LEASE_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Generator.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Generator.GeminiModel)
	assert.Equal(t, 10*time.Minute, cfg.Chat.TurnLeaseTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "OpenAI")
	t.Setenv("TURN_LEASE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("GENERATOR_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Generator.Provider)
	assert.Equal(t, 90*time.Second, cfg.Chat.TurnLeaseTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 4, cfg.Generator.Burst)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "llama")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATOR_PROVIDER")
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Firebase: FirebaseConfig{CredentialsPath: "/tmp/sa.json"},
	}
	err := cfg.ValidateServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_API_KEY")

	cfg.Firebase.APIKey = "key"
	assert.NoError(t, cfg.ValidateServer())
}
