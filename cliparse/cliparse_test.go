// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the dotenv lookup at an empty temp dir so a developer's
// .env cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{"PORT", "API_URL", "DATABASE_URL", "DATABASE_TYPE", "DEVICE_COOKIE_SALT", "SECURE_COOKIES"} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, ".env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	envFile := isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_URL", "https://api.formguard.test")
	t.Setenv("DEVICE_COOKIE_SALT", "test-salt")
	t.Setenv("SECURE_COOKIES", "true")

	cfg, err := ParseFlags([]string{"-env", envFile})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.APIURL != "https://api.formguard.test" {
		t.Errorf("expected API URL from env, got %s", cfg.APIURL)
	}
	if !cfg.SecureCookies {
		t.Error("expected secure cookies from env")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	envFile := isolate(t)
	t.Setenv("DEVICE_COOKIE_SALT", "test-salt")

	cfg, err := ParseFlags([]string{"-env", envFile})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("expected sqlite defaults, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	envFile := isolate(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-env", envFile, "-p", "8080", "-d", "file:test.db", "-device-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected database URL from CLI, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_MissingSalt(t *testing.T) {
	envFile := isolate(t)

	if _, err := ParseFlags([]string{"-env", envFile}); err == nil {
		t.Error("expected error when DEVICE_COOKIE_SALT is missing")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	envFile := isolate(t)

	_, err := ParseFlags([]string{"-env", envFile, "-device-salt", "s", "-t", "mysql"})
	if err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestParseFlags_DotEnvFile(t *testing.T) {
	envFile := isolate(t)
	if err := os.WriteFile(envFile, []byte("DEVICE_COOKIE_SALT=from-dotenv\nPORT=7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// t.Setenv("X", "") leaves X set, which godotenv will not override
	os.Unsetenv("DEVICE_COOKIE_SALT")
	os.Unsetenv("PORT")
	t.Cleanup(func() {
		os.Unsetenv("DEVICE_COOKIE_SALT")
		os.Unsetenv("PORT")
	})

	cfg, err := ParseFlags([]string{"-env", envFile})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DeviceSalt != "from-dotenv" {
		t.Errorf("expected salt from .env, got %q", cfg.DeviceSalt)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected port from .env, got %d", cfg.Port)
	}
}

func TestParseFlags_YAMLFile(t *testing.T) {
	envFile := isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: 4000
api_url: https://api.example.com
database_type: postgres
database_url: postgres://localhost/formguard
device_salt: yaml-salt
secure_cookies: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", envFile, "-c", path, "-p", "5000"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 5000 {
		t.Errorf("CLI should override file: expected 5000, got %d", cfg.Port)
	}
	if cfg.APIURL != "https://api.example.com" || cfg.DatabaseType != "postgres" {
		t.Errorf("expected file values, got %+v", cfg)
	}
	if cfg.DeviceSalt != "yaml-salt" || !cfg.SecureCookies {
		t.Errorf("expected salt and secure cookies from file, got %+v", cfg)
	}
}
