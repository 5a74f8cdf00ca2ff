package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./ecoleta.db" {
			t.Errorf("expected database path ./ecoleta.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3333 {
			t.Errorf("expected server port 3333, got %d", config.Server.Port)
		}

		if config.Storage.Driver != "disk" {
			t.Errorf("expected disk storage driver, got %s", config.Storage.Driver)
		}

		if config.Geo.BaseURL != "https://servicodados.ibge.gov.br/api/v1" {
			t.Errorf("unexpected geo base url %s", config.Geo.BaseURL)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		s := ServerConfig{Host: "127.0.0.1", Port: 8080}
		if s.Addr() != "127.0.0.1:8080" {
			t.Errorf("expected 127.0.0.1:8080, got %s", s.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
port = 8080

[storage]
driver = "s3"

[storage.s3]
bucket = "ecoleta-images"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Server.PublicURL != "http://localhost:3333" {
			t.Errorf("expected default public url to survive, got %s", config.Server.PublicURL)
		}
		if config.Storage.S3.Bucket != "ecoleta-images" {
			t.Errorf("expected bucket ecoleta-images, got %s", config.Storage.S3.Bucket)
		}
	})

	t.Run("LoadConfig invalid toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected read error")
		}
	})
}

func TestConfigEnv(t *testing.T) {
	t.Run("ApplyEnv overrides values", func(t *testing.T) {
		t.Setenv("ECOLETA_DATABASE_PATH", "/tmp/env.db")
		t.Setenv("ECOLETA_SERVER_PORT", "4000")
		t.Setenv("ECOLETA_PUBLIC_URL", "https://ecoleta.example.com")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Server.Port != 4000 {
			t.Errorf("expected port 4000, got %d", config.Server.Port)
		}
		if config.Server.PublicURL != "https://ecoleta.example.com" {
			t.Errorf("expected env public url, got %s", config.Server.PublicURL)
		}
	})

	t.Run("ApplyEnv rejects a bad port", func(t *testing.T) {
		t.Setenv("ECOLETA_SERVER_PORT", "not-a-port")

		err := DefaultConfig().ApplyEnv()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnv reads dotenv files", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("ECOLETA_STORAGE_DIR=/srv/uploads\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("ECOLETA_STORAGE_DIR", "")
		os.Unsetenv("ECOLETA_STORAGE_DIR")

		if err := LoadEnv(envPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := os.Getenv("ECOLETA_STORAGE_DIR"); got != "/srv/uploads" {
			t.Errorf("expected /srv/uploads, got %q", got)
		}
	})

	t.Run("LoadEnv ignores missing files", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("expected missing file to be ignored, got %v", err)
		}
	})

	t.Run("ResolveConfig without a file uses defaults", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "config.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Server.Port != DefaultConfig().Server.Port {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tc := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "ftp" }},
		{name: "disk without dir", mutate: func(c *Config) { c.Storage.Dir = "" }},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Driver = "s3"; c.Storage.S3.Bucket = "" }},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
