package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.Trigger != want.Trigger || cfg.ConnectDelay != 2*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SocketPath == "" || !strings.Contains(filepath.Base(cfg.SocketPath), "mpvsocket-") {
		t.Fatalf("SocketPath = %q, want the per-user default", cfg.SocketPath)
	}
	if strings.Join(cfg.SubtitleTool, " ") != defaultSubtitleTool {
		t.Fatalf("SubtitleTool = %v", cfg.SubtitleTool)
	}
	if cfg.Presenter != "auto" || cfg.Dialog != "zenity" || cfg.Debug {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
socket_path = "  ~/.mpv/socket  "
trigger = " context_menu "
connect_delay = "500ms"
presenter = "Terminal"
dialog = "kdialog"
subtitle_tool = "subliminal  download -l de"
debug = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SocketPath != filepath.Join(home, ".mpv/socket") {
		t.Fatalf("SocketPath = %q, want it under HOME %q", cfg.SocketPath, home)
	}
	if cfg.Trigger != "context_menu" {
		t.Fatalf("Trigger = %q", cfg.Trigger)
	}
	if cfg.ConnectDelay != 500*time.Millisecond {
		t.Fatalf("ConnectDelay = %s", cfg.ConnectDelay)
	}
	if cfg.Presenter != "terminal" || cfg.Dialog != "kdialog" || !cfg.Debug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if strings.Join(cfg.SubtitleTool, "|") != "subliminal|download|-l|de" {
		t.Fatalf("SubtitleTool = %v", cfg.SubtitleTool)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
trigger = "   "
subtitle_tool = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Trigger != defaultTrigger {
		t.Fatalf("Trigger = %q, want %q", cfg.Trigger, defaultTrigger)
	}
	if len(cfg.SubtitleTool) == 0 {
		t.Fatalf("SubtitleTool should keep its default")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad toml":       "trigger = ",
		"bad duration":   `connect_delay = "soon"`,
		"negative delay": `connect_delay = "-1s"`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestPathHonoursEnvironment(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv("MPVMENU_CONFIG_PATH", custom)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != custom {
		t.Fatalf("Path = %q, want %q", got, custom)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Trigger = "context_menu"
	cfg.ConnectDelay = 3 * time.Second
	cfg.Dialog = "kdialog"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "# zenity or kdialog") {
		t.Fatalf("expected field comments in saved file:\n%s", raw)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Trigger != "context_menu" || loaded.ConnectDelay != 3*time.Second || loaded.Dialog != "kdialog" {
		t.Fatalf("unexpected round trip %+v", loaded)
	}
}
