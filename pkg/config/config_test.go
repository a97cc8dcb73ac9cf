package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Lists.DefaultLimit != 20 || cfg.Lists.MaxLimit != 100 {
		t.Errorf("list limits = %d/%d, want 20/100", cfg.Lists.DefaultLimit, cfg.Lists.MaxLimit)
	}
	if cfg.Lists.PhraseLength != 2 {
		t.Errorf("phrase length = %d, want 2", cfg.Lists.PhraseLength)
	}
	if cfg.Refresh.Schedule != "0 3 * * *" || cfg.Refresh.TopN != 20 {
		t.Errorf("refresh defaults = %q/%d", cfg.Refresh.Schedule, cfg.Refresh.TopN)
	}
	if cfg.Redis.CacheTTL != 60*time.Second {
		t.Errorf("cache TTL = %v, want 60s", cfg.Redis.CacheTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9999
postgres:
  host: db.internal
  database: corpus
lists:
  defaultLimit: 10
refresh:
  topN: 50
  stopwords: [alpha, beta]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Database != "corpus" {
		t.Errorf("postgres = %s/%s", cfg.Postgres.Host, cfg.Postgres.Database)
	}
	if cfg.Lists.DefaultLimit != 10 {
		t.Errorf("default limit = %d, want 10", cfg.Lists.DefaultLimit)
	}
	if cfg.Refresh.TopN != 50 {
		t.Errorf("topN = %d, want 50", cfg.Refresh.TopN)
	}
	if len(cfg.Refresh.Stopwords) != 2 {
		t.Errorf("stopwords = %v", cfg.Refresh.Stopwords)
	}
	// Untouched sections keep their defaults.
	if cfg.Postgres.Port != 5432 {
		t.Errorf("postgres port = %d, want default 5432", cfg.Postgres.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load accepted a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FW_SERVER_PORT", "7070")
	t.Setenv("FW_POSTGRES_HOST", "pg.example")
	t.Setenv("FW_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FW_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "pg.example" {
		t.Errorf("postgres host = %q", cfg.Postgres.Host)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverrideIgnoresBadPort(t *testing.T) {
	t.Setenv("FW_SERVER_PORT", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, User: "ws", Password: "pw",
		Database: "wordseer", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=ws password=pw dbname=wordseer sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
