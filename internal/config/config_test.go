package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("EVENTS_ENABLED", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("ALLOW_HEADER_IDENTITY", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("GRADING_TOPIC", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AllowHeaderIdentity)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "grading-events", cfg.Events.GradingTopic)
	assert.False(t, cfg.Casdoor.Enabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("GRADING_TOPIC", "ielts-grading")
	t.Setenv("ALLOW_HEADER_IDENTITY", "")
	t.Setenv("CASDOOR_ENDPOINT", "https://id.example.com")
	t.Setenv("CASDOOR_CERTIFICATE", "-----BEGIN CERTIFICATE-----")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.AllowHeaderIdentity)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "ielts-grading", cfg.Events.GradingTopic)
	assert.True(t, cfg.Casdoor.Enabled())
}

func TestEventConfig_Brokers(t *testing.T) {
	c := EventConfig{KafkaBrokers: "k1:9092, k2:9092"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.GetKafkaBrokers())
}

func TestEventConfig_MockPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	for _, c := range []EventConfig{{Enabled: false}, {Enabled: true, Publisher: "mock"}, {Enabled: true, Publisher: "carrier-pigeon"}} {
		pub, err := c.CreateEventPublisher(logger)
		require.NoError(t, err)
		_, ok := pub.(*events.MockEventPublisher)
		assert.True(t, ok)
	}
}
