package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Addr    string        `envconfig:"ADDR" default:":8000"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"20s"`
	Name    string        `envconfig:"NAME"`
}

func TestNewReadsExplicitEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CFGTEST_NAME=zus\nCFGTEST_TIMEOUT=5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		SetEnvFile("")
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_TIMEOUT")
	})

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "zus" {
		t.Fatalf("Name = %q, want zus", conf.Name)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", conf.Timeout)
	}
	if conf.Addr != ":8000" {
		t.Fatalf("Addr = %q, want default", conf.Addr)
	}
}

func TestNewPrefersProcessEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.env")
	if err := os.WriteFile(path, []byte("CFGOVR_NAME=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGOVR_NAME", "from-env")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGOVR")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "from-env" {
		t.Fatalf("Name = %q, want from-env", conf.Name)
	}
}

func TestNewMissingEnvFile(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatalf("New() error = nil, want error for missing file")
	}
}
