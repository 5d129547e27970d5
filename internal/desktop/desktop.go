// Package desktop implements the helpers menu actions hand off to once the
// menu has closed: file choosers, error dialogs, the subtitle download tool
// and the browser.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/example/mpvmenu/internal/logging"
)

// Dialog names the program used for file choosers and error boxes.
type Dialog string

const (
	DialogZenity  Dialog = "zenity"
	DialogKDialog Dialog = "kdialog"
)

// DefaultSubtitleTool is the subtitle downloader argv; the media path is
// appended as the last argument.
var DefaultSubtitleTool = []string{"subliminal", "download", "-l", "en"}

// maxToolOutput bounds how much subprocess output ends up in an error.
const maxToolOutput = 400

// ParseDialog validates a dialog program name. The empty string selects zenity.
func ParseDialog(s string) (Dialog, error) {
	switch d := Dialog(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DialogZenity, nil
	case DialogZenity, DialogKDialog:
		return d, nil
	default:
		return "", fmt.Errorf("unknown dialog program %q (want zenity or kdialog)", s)
	}
}

// Desktop runs desktop helper programs as subprocesses.
type Desktop struct {
	dialog       Dialog
	subtitleTool []string
	exec         runner
}

// New returns a Desktop using dialog for choosers and subtitleTool (nil for
// the default) to download subtitles.
func New(dialog Dialog, subtitleTool []string) *Desktop {
	if dialog == "" {
		dialog = DialogZenity
	}
	if len(subtitleTool) == 0 {
		subtitleTool = DefaultSubtitleTool
	}
	return &Desktop{dialog: dialog, subtitleTool: subtitleTool, exec: execRunner{}}
}

// ChooseFile opens a file chooser in dir and returns the chosen path, or ""
// when the user cancels.
func (d *Desktop) ChooseFile(ctx context.Context, dir, title string) (string, error) {
	name, args := d.chooserArgs(dir, title)
	out, err := d.exec.Output(ctx, name, args...)
	if err != nil {
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", fmt.Errorf("run %s: %w%s", name, err, stderrTail(err))
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}

func (d *Desktop) chooserArgs(dir, title string) (string, []string) {
	if d.dialog == DialogKDialog {
		return "kdialog", []string{"--getopenfilename", dir, "--title", title}
	}
	start := dir
	if start != "" && !strings.HasSuffix(start, string(filepath.Separator)) {
		start += string(filepath.Separator)
	}
	return "zenity", []string{"--file-selection", "--title=" + title, "--filename=" + start}
}

// ShowError logs message and shows it in a dialog box. Failing to show the
// dialog is only logged.
func (d *Desktop) ShowError(ctx context.Context, title, message string) {
	logging.Errorf("%s: %s", title, message)

	name, args := "zenity", []string{"--error", "--no-markup", "--title=" + title, "--text=" + message}
	if d.dialog == DialogKDialog {
		name, args = "kdialog", []string{"--title", title, "--error", message}
	}
	if _, err := d.exec.Output(ctx, name, args...); err != nil && exitCode(err) < 0 {
		logging.Errorf("show error dialog with %s: %v", name, err)
	}
}

// FetchSubtitles runs the subtitle tool on mediaPath and waits for it.
func (d *Desktop) FetchSubtitles(ctx context.Context, mediaPath string) error {
	if mediaPath == "" {
		return errors.New("no media path to fetch subtitles for")
	}
	argv := append(append([]string(nil), d.subtitleTool...), mediaPath)
	logging.Infof("fetching subtitles: %s", strings.Join(argv, " "))

	out, err := d.exec.CombinedOutput(ctx, argv[0], argv[1:]...)
	if err != nil {
		if tail := lastOutput(out); tail != "" {
			return fmt.Errorf("%s failed: %w\n%s", argv[0], err, tail)
		}
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	logging.Debugf("%s output: %s", argv[0], lastOutput(out))
	return nil
}

// OpenURL hands raw to the platform's URL launcher without waiting for it.
func (d *Desktop) OpenURL(ctx context.Context, raw string) error {
	if raw == "" {
		return errors.New("empty url")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	name, args := launcher(raw)
	if err := d.exec.Start(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", raw, err)
	}
	return nil
}

func lastOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxToolOutput {
		s = "..." + s[len(s)-maxToolOutput:]
	}
	return s
}

// stderrTail formats the stderr captured in a failed Output call, if any.
func stderrTail(err error) string {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ""
	}
	if tail := lastOutput(exitErr.Stderr); tail != "" {
		return "\n" + tail
	}
	return ""
}

// exitCode returns the exit status carried by err, or -1 when the program
// did not run to completion.
func exitCode(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}
