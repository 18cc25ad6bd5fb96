package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "freight.yaml")
	yml := []byte(`
STORAGE_DRIVER: memory
port: 9090
MESSAGING_ENABLED: true
EVENT_PUBLISH_TIMEOUT: 5s
KAFKA_BROKERS: "k1:9092, k2:9092"
JWT_SECRET: from-file
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file value", cfg.StorageDriver, "memory"},
		{"lowercase file key", cfg.Port, "9090"},
		{"file bool", cfg.MessagingEnabled, true},
		{"file duration", cfg.PublishTimeout, 5 * time.Second},
		{"env beats file", cfg.JWTSecret, "from-env"},
		{"bad env falls back to default", cfg.DBMaxConns, int32(10)},
		{"default", cfg.EventBroker, "rabbitmq"},
		{"kafka list", len(cfg.KafkaBrokerList()), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestDSNs(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable", SQLitePath: "x.db"}
	if got := cfg.PostgresDSN(); got != "postgres://u:p@h:1/d?sslmode=disable" {
		t.Fatalf("postgres dsn = %s", got)
	}
	cfg.GormDialect = "sqlite"
	if cfg.GormDSN() != "x.db" {
		t.Fatalf("sqlite dsn = %s", cfg.GormDSN())
	}
	cfg.GormDialect = "postgres"
	if cfg.GormDSN() != cfg.PostgresDSN() {
		t.Fatalf("gorm postgres dsn = %s", cfg.GormDSN())
	}
}
