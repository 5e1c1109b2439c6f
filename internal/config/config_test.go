package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %s, want sqlite", cfg.Backend)
	}
	if cfg.SQLite.Path == "" {
		t.Error("expected a default sqlite path")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbot.yaml")
	data := `version: 1
backend: mysql
mysql:
  host: db.example.com:3306
  user: factbot
  database: facts
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loadedPath != path {
		t.Errorf("path = %s, want %s", loadedPath, path)
	}
	if cfg.Backend != BackendMySQL {
		t.Errorf("Backend = %s, want mysql", cfg.Backend)
	}
	if cfg.MySQL.Host != "db.example.com:3306" {
		t.Errorf("Host = %s", cfg.MySQL.Host)
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbot.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %s, want sqlite default", cfg.Backend)
	}
	if cfg.SQLite.Path == "" {
		t.Error("expected a default sqlite path")
	}
}

func TestLoadFromPathBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbot.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadFromPath(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FACTBOT_BACKEND", "mysql")
	t.Setenv("FACTBOT_MYSQL_HOST", "localhost:3306")
	t.Setenv("FACTBOT_MYSQL_USER", "bot")
	t.Setenv("FACTBOT_MYSQL_PASSWORD", "hunter2")
	t.Setenv("FACTBOT_MYSQL_DATABASE", "facts")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Backend != BackendMySQL {
		t.Errorf("Backend = %s, want mysql", cfg.Backend)
	}
	if cfg.MySQL.Password != "hunter2" {
		t.Error("password not taken from environment")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "factbot.yaml")

	cfg := DefaultConfig()
	cfg.Backend = BackendMySQL
	cfg.MySQL = MySQLConfig{Host: "h:3306", User: "u", Database: "d"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.MySQL.Host != "h:3306" {
		t.Errorf("Host = %s, want h:3306", loaded.MySQL.Host)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{Backend: BackendSQLite, SQLite: SQLiteConfig{Path: "x.db"}}, false},
		{"sqlite missing path", Config{Backend: BackendSQLite}, true},
		{"mysql ok", Config{Backend: BackendMySQL, MySQL: MySQLConfig{Host: "h", Database: "d"}}, false},
		{"mysql missing host", Config{Backend: BackendMySQL, MySQL: MySQLConfig{Database: "d"}}, true},
		{"unknown backend", Config{Backend: "oracle"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigPathExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	if got := FindConfigPath(); got != path {
		t.Errorf("FindConfigPath() = %s, want %s", got, path)
	}
}
