package desktop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type exitStatus int

func (e exitStatus) Error() string { return "exit status" }
func (e exitStatus) ExitCode() int { return int(e) }

type call struct {
	name     string
	args     []string
	start    bool
	combined bool
}

type fakeRunner struct {
	calls  []call
	output string
	err    error
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return []byte(f.output), f.err
}

func (f *fakeRunner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args, combined: true})
	return []byte(f.output), f.err
}

func (f *fakeRunner) Start(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args, start: true})
	return f.err
}

func newTestDesktop(dialog Dialog, r *fakeRunner) *Desktop {
	d := New(dialog, nil)
	d.exec = r
	return d
}

func TestParseDialog(t *testing.T) {
	for in, want := range map[string]Dialog{"": DialogZenity, "zenity": DialogZenity, " KDialog": DialogKDialog} {
		got, err := ParseDialog(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialog(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDialog("yad"); err == nil {
		t.Fatalf("expected an error for an unsupported dialog")
	}
}

func TestChooseFileZenity(t *testing.T) {
	r := &fakeRunner{output: "/media/film.mkv\n"}
	d := newTestDesktop(DialogZenity, r)

	got, err := d.ChooseFile(context.Background(), "/media", "Open file")
	if err != nil {
		t.Fatalf("ChooseFile: %v", err)
	}
	if got != "/media/film.mkv" {
		t.Fatalf("unexpected path %q", got)
	}
	c := r.calls[0]
	if c.name != "zenity" || strings.Join(c.args, " ") != "--file-selection --title=Open file --filename=/media/" {
		t.Fatalf("unexpected invocation %+v", c)
	}
}

func TestChooseFileKDialog(t *testing.T) {
	r := &fakeRunner{output: "/media/subs.srt\n"}
	d := newTestDesktop(DialogKDialog, r)

	if _, err := d.ChooseFile(context.Background(), "/media", "Add subtitle file"); err != nil {
		t.Fatalf("ChooseFile: %v", err)
	}
	want := []string{"--getopenfilename", "/media", "--title", "Add subtitle file"}
	if c := r.calls[0]; c.name != "kdialog" || strings.Join(c.args, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected invocation %+v", c)
	}
}

func TestChooseFileCancelled(t *testing.T) {
	d := newTestDesktop(DialogZenity, &fakeRunner{err: exitStatus(1)})
	got, err := d.ChooseFile(context.Background(), "/media", "Open file")
	if err != nil {
		t.Fatalf("cancel should not be an error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty path on cancel, got %q", got)
	}
}

func TestChooseFileLaunchFailure(t *testing.T) {
	d := newTestDesktop(DialogZenity, &fakeRunner{err: errors.New("executable file not found")})
	if _, err := d.ChooseFile(context.Background(), "/media", "Open file"); err == nil {
		t.Fatalf("expected launch failure to be reported")
	}
}

func TestFetchSubtitlesAppendsMediaPath(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDesktop(DialogZenity, r)
	if err := d.FetchSubtitles(context.Background(), "/media/film.mkv"); err != nil {
		t.Fatalf("FetchSubtitles: %v", err)
	}
	c := r.calls[0]
	if !c.combined {
		t.Fatalf("subtitle tool output should include stderr")
	}
	if c.name != "subliminal" || strings.Join(c.args, " ") != "download -l en /media/film.mkv" {
		t.Fatalf("unexpected invocation %+v", c)
	}
	if len(DefaultSubtitleTool) != 4 {
		t.Fatalf("default tool argv was modified: %v", DefaultSubtitleTool)
	}
}

func TestFetchSubtitlesFailureCarriesOutput(t *testing.T) {
	r := &fakeRunner{output: "no subtitles found\n", err: exitStatus(2)}
	d := newTestDesktop(DialogZenity, r)
	err := d.FetchSubtitles(context.Background(), "/media/film.mkv")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "no subtitles found") {
		t.Fatalf("expected tool output in error, got %v", err)
	}
	if err := d.FetchSubtitles(context.Background(), ""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}

func TestShowErrorUsesDialog(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDesktop(DialogKDialog, r)
	d.ShowError(context.Background(), "Download subtitles", "tool missing")
	want := []string{"--title", "Download subtitles", "--error", "tool missing"}
	if c := r.calls[0]; c.name != "kdialog" || strings.Join(c.args, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected invocation %+v", c)
	}
}

func TestOpenURL(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDesktop(DialogZenity, r)
	if err := d.OpenURL(context.Background(), "https://mpv.io/manual/stable/"); err != nil {
		t.Fatalf("OpenURL: %v", err)
	}
	c := r.calls[0]
	if !c.start {
		t.Fatalf("launcher should not be waited for")
	}
	if c.args[len(c.args)-1] != "https://mpv.io/manual/stable/" {
		t.Fatalf("url not passed to launcher: %+v", c)
	}
	if runtime.GOOS == "linux" && c.name != "xdg-open" {
		t.Fatalf("expected xdg-open on linux, got %s", c.name)
	}

	for _, bad := range []string{"", "not a url"} {
		if err := d.OpenURL(context.Background(), bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

// installTool writes an executable shell script named name into a fresh
// directory at the front of PATH.
func installTool(t *testing.T, name, script string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestChooseFileIgnoresToolStderr(t *testing.T) {
	installTool(t, "zenity", `echo "Gtk-Message: 10:00:00.000: GtkDialog mapped without a transient parent. This is discouraged." >&2
echo /media/film.mkv
`)

	got, err := New(DialogZenity, nil).ChooseFile(context.Background(), "/media", "Open file")
	if err != nil {
		t.Fatalf("ChooseFile: %v", err)
	}
	if got != "/media/film.mkv" {
		t.Fatalf("ChooseFile = %q, want only the chosen path", got)
	}
}

func TestChooseFileFailureCarriesStderr(t *testing.T) {
	installTool(t, "zenity", `echo "cannot open display" >&2
exit 5
`)

	_, err := New(DialogZenity, nil).ChooseFile(context.Background(), "/media", "Open file")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "cannot open display") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestChooseFileCancelledByTool(t *testing.T) {
	installTool(t, "zenity", "exit 1\n")

	got, err := New(DialogZenity, nil).ChooseFile(context.Background(), "/media", "Open file")
	if err != nil || got != "" {
		t.Fatalf("ChooseFile = %q, %v; want a silent cancel", got, err)
	}
}

func TestFetchSubtitlesFailureCarriesToolStderr(t *testing.T) {
	installTool(t, "fetch-subs", `echo "no provider answered for $1" >&2
exit 2
`)

	err := New(DialogZenity, []string{"fetch-subs"}).FetchSubtitles(context.Background(), "/media/film.mkv")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "no provider answered for /media/film.mkv") {
		t.Fatalf("expected tool stderr in error, got %v", err)
	}
}
