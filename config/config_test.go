package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"dmx-editor/config"
	"dmx-editor/controller"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DMX_CONTROLLER_ADDRESS", "")
	t.Setenv("DMX_EDITOR_BIND", "")
	t.Setenv("PORT", "")
	return home
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "dmx-editor", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.ControllerURL() != "http://192.168.1.100" {
		t.Fatalf("unexpected controller url: %q", cfg.ControllerURL())
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Server.Bind != "127.0.0.1:8080" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Editor.InitialCount != 3 {
		t.Fatalf("unexpected initial count: %d", cfg.Editor.InitialCount)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "editor.toml")
	content := `
[controller]
address = "https://dmx.local:8443/"
request_timeout_seconds = 2

[server]
bind = "0.0.0.0:9000"

[editor]
initial_count = 8

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be found, got %q exists=%v", path, resolved, exists)
	}
	if cfg.ControllerURL() != "https://dmx.local:8443" {
		t.Fatalf("unexpected controller url: %q", cfg.ControllerURL())
	}
	if cfg.RequestTimeout() != 2*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Server.Bind != "0.0.0.0:9000" || cfg.Editor.InitialCount != 8 {
		t.Fatalf("unexpected server/editor: %+v %+v", cfg.Server, cfg.Editor)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DMX_CONTROLLER_ADDRESS", "10.0.0.7")
	t.Setenv("PORT", "7000")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ControllerURL() != "http://10.0.0.7" {
		t.Fatalf("expected env controller address, got %q", cfg.ControllerURL())
	}
	if cfg.Server.Bind != ":7000" {
		t.Fatalf("expected PORT bind, got %q", cfg.Server.Bind)
	}

	t.Setenv("DMX_EDITOR_BIND", "127.0.0.1:7100")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:7100" {
		t.Fatalf("expected DMX_EDITOR_BIND to win over PORT, got %q", cfg.Server.Bind)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"empty address": func(c *config.Config) { c.Controller.Address = "" },
		"bad scheme":    func(c *config.Config) { c.Controller.Address = "ftp://dmx" },
		"timeout":       func(c *config.Config) { c.Controller.RequestTimeoutSeconds = 0 },
		"bind":          func(c *config.Config) { c.Server.Bind = "nonsense" },
		"count low":     func(c *config.Config) { c.Editor.InitialCount = 1 },
		"count high":    func(c *config.Config) { c.Editor.InitialCount = 21 },
		"log format":    func(c *config.Config) { c.Logging.Format = "xml" },
		"log level":     func(c *config.Config) { c.Logging.Level = "trace" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "editor.toml")
	if err := os.WriteFile(path, []byte("[controller]\nadress = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg != config.Default() {
		t.Fatalf("sample config drifted from defaults:\n%+v\n%+v", cfg, config.Default())
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if string(data) != config.SampleConfig() {
		t.Fatal("written sample differs from embedded sample")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}
}

func TestControllerURLMatchesClient(t *testing.T) {
	for _, addr := range []string{"192.168.1.100", " dmx.local/ ", "https://dmx.local:8443/", ""} {
		cfg := config.Default()
		cfg.Controller.Address = addr
		if got, want := cfg.ControllerURL(), controller.NewClient(addr).BaseURL(); got != want {
			t.Fatalf("ControllerURL() for %q = %q, client uses %q", addr, got, want)
		}
	}
}
