package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// unsetProxyEnv removes PROXY_URL for the test and restores it afterwards.
func unsetProxyEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvProxyURL, "")
	os.Unsetenv(EnvProxyURL)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetProxyEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.ProxyURL != "" {
		t.Errorf("ProxyURL = %q, want empty", cfg.ProxyURL)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path)
	}
	if got := cfg.DefaultProvider().ID; got != DefaultProviders[0].ID {
		t.Errorf("DefaultProvider = %q, want %q", got, DefaultProviders[0].ID)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hrs.toml")
	writeFile(t, path, `
base_url = "https://sandbox.example.test"
proxy_url = "https://proxy.example.test/"
request_timeout = "15s"
sticky_loading = true

[web]
addr = ":9999"
cors_origins = ["http://localhost:3000"]

[[providers]]
id = "acme"
name = "Acme Payroll"

[[providers]]
id = "globex"
name = "Globex HR"
`)
	unsetProxyEnv(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://sandbox.example.test" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ProxyURL != "https://proxy.example.test/" {
		t.Errorf("ProxyURL = %q", cfg.ProxyURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
	if !cfg.StickyLoading {
		t.Error("StickyLoading should be true")
	}
	if cfg.Web.Addr != ":9999" {
		t.Errorf("Web.Addr = %q", cfg.Web.Addr)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}
	if cfg.DefaultProvider().ID != "acme" {
		t.Errorf("DefaultProvider = %q, want acme", cfg.DefaultProvider().ID)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoad_EnvOverridesProxy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hrs.toml")
	writeFile(t, path, `proxy_url = "https://from-file/"`)
	t.Setenv(EnvProxyURL, "https://from-env/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProxyURL != "https://from-env/" {
		t.Errorf("ProxyURL = %q, want env value", cfg.ProxyURL)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hrs.toml")
	writeFile(t, path, `base_urll = "typo"`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "base_urll") {
		t.Errorf("error %q should name the unknown key", err)
	}
}

func TestValidateProviders(t *testing.T) {
	tests := []struct {
		name      string
		providers []Provider
		wantErr   bool
	}{
		{name: "empty", providers: nil, wantErr: true},
		{name: "blank id", providers: []Provider{{ID: " ", Name: "x"}}, wantErr: true},
		{name: "duplicate", providers: []Provider{{ID: "a"}, {ID: "a"}}, wantErr: true},
		{name: "valid", providers: []Provider{{ID: "a"}, {ID: "b"}}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProviders(tt.providers)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProviders() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveProvider(t *testing.T) {
	cfg := Default()

	p, err := cfg.ResolveProvider("")
	if err != nil {
		t.Fatalf("ResolveProvider(\"\"): %v", err)
	}
	if p != DefaultProviders[0] {
		t.Errorf("ResolveProvider(\"\") = %+v, want first catalog entry", p)
	}

	p, err = cfg.ResolveProvider("justworks")
	if err != nil {
		t.Fatalf("ResolveProvider(justworks): %v", err)
	}
	if p.Name != "Justworks" {
		t.Errorf("Name = %q, want Justworks", p.Name)
	}

	if _, err := cfg.ResolveProvider("not-a-provider"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestInit_WritesLoadableFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "hrs.toml")
	unsetProxyEnv(t)

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed after Init")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Init: %v", err)
	}
	if len(cfg.Providers) != len(DefaultProviders) {
		t.Errorf("len(Providers) = %d, want %d", len(cfg.Providers), len(DefaultProviders))
	}

	if err := Init(path); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second Init err = %v, want ErrConfigExists", err)
	}
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	unsetProxyEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed .env, got nil")
	}
}

func TestLoad_DotEnvSetsProxy(t *testing.T) {
	unsetProxyEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PROXY_URL=https://cors.example/\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProxyURL != "https://cors.example/" {
		t.Errorf("ProxyURL = %q", cfg.ProxyURL)
	}
}
