// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "data/ladder.db" {
		t.Errorf("expected default sqlite path, got %q", cfg.DatabaseURL)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("expected default frontend origin, got %q", cfg.FrontendURL)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ADMIN_SECRET", "shh")
	os.Setenv("IGDB_CLIENT_ID", "cid")
	os.Setenv("IGDB_CLIENT_SECRET", "csecret")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("database config = %q %q", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.AdminSecret != "shh" || cfg.IGDBClientID != "cid" || cfg.IGDBSecret != "csecret" {
		t.Errorf("secrets not read from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected file:test.db, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_PostgresRequiresURL(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{"-t", "postgres"}); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}
}

func TestParseFlags_RejectsUnknownDatabaseType(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{"-t", "mysql"}); err == nil {
		t.Error("expected error for unsupported database type")
	}
}
