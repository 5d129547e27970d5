package menu

import (
	"context"
	"path/filepath"
)

const manualURL = "https://mpv.io/manual/stable/"

// DefaultLayout returns the menu shown when the trigger message arrives.
func DefaultLayout() []Node {
	return []Node{
		Leaf(Action("Open file…", OpenFileAction)),
		Sep(),
		Submenu("Playback",
			Leaf(Toggle("Pause", "pause")),
			Leaf(Toggle("Mute", "mute")),
			Leaf(Toggle("Fullscreen", "fullscreen")),
			Leaf(Toggle("Loop playlist", "loop-playlist")),
			Sep(),
			Submenu("Speed",
				Leaf(SetProperty("0.5×", "speed", 0.5)),
				Leaf(SetProperty("1.0×", "speed", 1.0)),
				Leaf(SetProperty("1.25×", "speed", 1.25)),
				Leaf(SetProperty("1.5×", "speed", 1.5)),
				Leaf(SetProperty("2.0×", "speed", 2.0)),
			),
			Submenu("Seek",
				Leaf(Command("Back 1 minute", "seek", -60, "relative")),
				Leaf(Command("Back 10 seconds", "seek", -10, "relative")),
				Leaf(Command("Forward 10 seconds", "seek", 10, "relative")),
				Leaf(Command("Forward 1 minute", "seek", 60, "relative")),
				Sep(),
				Leaf(Command("Restart", "seek", 0, "absolute")),
			),
			Sep(),
			Leaf(Command("Previous in playlist", "playlist-prev")),
			Leaf(Command("Next in playlist", "playlist-next")),
			Leaf(Command("Screenshot", "screenshot")),
		),
		Submenu("Video",
			TrackList("Tracks", TrackVideo),
			Sep(),
			Submenu("Aspect ratio",
				Leaf(SetProperty("Original", "video-aspect-override", "-1")),
				Leaf(SetProperty("16:9", "video-aspect-override", "16:9")),
				Leaf(SetProperty("4:3", "video-aspect-override", "4:3")),
				Leaf(SetProperty("2.35:1", "video-aspect-override", "2.35:1")),
			),
			Submenu("Rotate",
				Leaf(SetProperty("0°", "video-rotate", 0)),
				Leaf(SetProperty("90°", "video-rotate", 90)),
				Leaf(SetProperty("180°", "video-rotate", 180)),
				Leaf(SetProperty("270°", "video-rotate", 270)),
			),
			Leaf(Toggle("Deinterlace", "deinterlace")),
			Sep(),
			Leaf(FilterToggle("Flip horizontally", VideoFilters, "hflip", "")),
			Leaf(FilterToggle("Flip vertically", VideoFilters, "vflip", "")),
			Leaf(FilterToggle("Negate colours", VideoFilters, "negate", "")),
		),
		Submenu("Audio",
			TrackList("Tracks", TrackAudio),
			Sep(),
			Leaf(FilterToggle("Dynamic normalisation", AudioFilters, "dynaudnorm", "f=75:g=25:p=0.55")),
			Leaf(FilterToggle("Loudness normalisation", AudioFilters, "loudnorm", "I=-16:TP=-3:LRA=4")),
			Leaf(FilterToggle("Downmix to stereo", AudioFilters, "pan", "stereo|FL<FL+0.5*FC+0.6*BL+0.6*SL|FR<FR+0.5*FC+0.6*BR+0.6*SR")),
			Sep(),
			Leaf(SetProperty("Reset audio delay", "audio-delay", 0)),
		),
		Submenu("Subtitles",
			TrackList("Tracks", TrackSub),
			Sep(),
			Leaf(Toggle("Visible", "sub-visibility")),
			Leaf(Action("Add subtitle file…", AddSubtitleAction)),
			Leaf(Action("Download subtitles", DownloadSubtitlesAction)),
			Sep(),
			Leaf(SetProperty("Reset subtitle delay", "sub-delay", 0)),
		),
		Sep(),
		Leaf(Action("mpv manual", OpenManualAction)),
		Leaf(Command("Quit mpv", "quit")),
		Leaf(Action("Quit menu", QuitAction)),
	}
}

// OpenFileAction asks for a file after the menu closes and loads it.
func OpenFileAction(_ context.Context, env *Env) error {
	env.Defer(func(ctx context.Context) error {
		return chooseAndRun(ctx, env, "Open file", "loadfile")
	})
	return nil
}

// AddSubtitleAction asks for a subtitle file after the menu closes and adds it.
func AddSubtitleAction(_ context.Context, env *Env) error {
	env.Defer(func(ctx context.Context) error {
		return chooseAndRun(ctx, env, "Add subtitle file", "sub-add")
	})
	return nil
}

// DownloadSubtitlesAction runs the subtitle tool on the current file after the
// menu closes, then asks the player to pick up new external files.
func DownloadSubtitlesAction(_ context.Context, env *Env) error {
	env.Defer(func(ctx context.Context) error {
		path, err := currentPath(env)
		if err != nil {
			return err
		}
		if path == "" {
			env.Desktop.ShowError(ctx, "Download subtitles", "Nothing is playing.")
			return nil
		}
		if err := env.Desktop.FetchSubtitles(ctx, path); err != nil {
			env.Desktop.ShowError(ctx, "Download subtitles", err.Error())
			return nil
		}
		return softCommand(env.Player, "rescan-external-files")
	})
	return nil
}

// OpenManualAction opens the player's manual in a browser after the menu closes.
func OpenManualAction(_ context.Context, env *Env) error {
	env.Defer(func(ctx context.Context) error {
		if err := env.Desktop.OpenURL(ctx, manualURL); err != nil {
			env.Desktop.ShowError(ctx, "mpv manual", err.Error())
		}
		return nil
	})
	return nil
}

// QuitAction ends the companion.
func QuitAction(context.Context, *Env) error {
	return ErrQuit
}

func chooseAndRun(ctx context.Context, env *Env, title, command string) error {
	dir, err := startDir(env)
	if err != nil {
		return err
	}
	path, err := env.Desktop.ChooseFile(ctx, dir, title)
	if err != nil {
		env.Desktop.ShowError(ctx, title, err.Error())
		return nil
	}
	if path == "" {
		return nil
	}
	return softCommand(env.Player, command, path)
}

// currentPath returns the absolute path of the playing file, or "".
func currentPath(env *Env) (string, error) {
	var path string
	if _, err := getInto(env.Player, "path", &path); err != nil {
		return "", err
	}
	return env.Abs(path), nil
}

// startDir is the directory of the playing file, falling back to the
// player's working directory for streams or when nothing is loaded.
func startDir(env *Env) (string, error) {
	path, err := currentPath(env)
	if err != nil {
		return "", err
	}
	if path == "" || isURL(path) {
		return env.WorkingDir, nil
	}
	return filepath.Dir(path), nil
}
