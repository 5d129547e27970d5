package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/mpvmenu/internal/config"
	"github.com/example/mpvmenu/internal/menu"
	"github.com/example/mpvmenu/internal/mpvtest"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MPVMENU_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.toml"))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"mpvmenu"}, args...))
	return out.String(), err
}

func TestLayoutCommandPrintsTree(t *testing.T) {
	out, err := runApp(t, "layout")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{
		"Open file…\n",
		"Playback/\n",
		"  Pause [toggle pause]\n",
		"    0.5× [set speed=0.5]\n",
		"  Tracks/ (audio tracks)\n",
		"  Dynamic normalisation [af toggle dynaudnorm=f=75:g=25:p=0.55]\n",
		"Quit mpv [quit]\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout output missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeNode(t *testing.T) {
	tests := []struct {
		node menu.Node
		want string
	}{
		{menu.Sep(), "----"},
		{menu.Leaf(menu.Toggle("Mute", "mute")), "Mute [toggle mute]"},
		{menu.Leaf(menu.FilterToggle("Flip", menu.VideoFilters, "hflip", "")), "Flip [vf toggle hflip]"},
		{menu.Leaf(menu.SetProperty("Rotate", "video-rotate", 90)), "Rotate [set video-rotate=90]"},
		{menu.Leaf(menu.Command("Back", "seek", -10, "relative")), "Back [seek -10 relative]"},
		{menu.Leaf(menu.Action("Quit menu", menu.QuitAction)), "Quit menu"},
		{menu.TrackList("Subtitles", menu.TrackSub), "Subtitles/ (sub tracks)"},
		{menu.Submenu("Video"), "Video/"},
	}
	for _, tt := range tests {
		if got := describeNode(tt.node); got != tt.want {
			t.Fatalf("describeNode = %q, want %q", got, tt.want)
		}
	}
}

func TestInitConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpvmenu", "config.toml")

	out, err := runApp(t, "--config", path, "--trigger", "context_menu", "init-config")
	if err != nil {
		t.Fatalf("init-config: %v", err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("unexpected output %q", out)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trigger != "context_menu" {
		t.Fatalf("Trigger = %q", cfg.Trigger)
	}

	if _, err := runApp(t, "--config", path, "init-config"); err == nil {
		t.Fatalf("expected init-config to refuse overwriting")
	}
	if _, err := runApp(t, "--config", path, "init-config", "--force"); err != nil {
		t.Fatalf("init-config --force: %v", err)
	}
}

func TestPopupSendsTriggerMessage(t *testing.T) {
	srv := mpvtest.NewServer(t)

	if _, err := runApp(t, "--socket", srv.Path, "--trigger", "context_menu", "popup"); err != nil {
		t.Fatalf("popup: %v", err)
	}
	sent := srv.CommandsNamed("script-message")
	if len(sent) != 1 || len(sent[0]) != 2 || sent[0][1] != "context_menu" {
		t.Fatalf("unexpected commands %v", srv.Commands())
	}
}

func TestPopupReportsRejectedMessage(t *testing.T) {
	srv := mpvtest.NewServer(t)
	srv.FailCommand("script-message", "error running command")

	if _, err := runApp(t, "--socket", srv.Path, "popup"); err == nil {
		t.Fatalf("expected popup to report the rejected message")
	}
}

func TestRejectsUnknownPresenter(t *testing.T) {
	if _, err := runApp(t, "--presenter", "webview"); err == nil {
		t.Fatalf("expected an unknown presenter to be rejected")
	}
}
