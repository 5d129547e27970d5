package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/example/mpvmenu/internal/ipc"
)

const (
	configDirName  = "mpvmenu"
	configFileName = "config.toml"

	defaultTrigger      = "popup_menu"
	defaultPresenter    = "auto"
	defaultDialog       = "zenity"
	defaultSubtitleTool = "subliminal download -l en"
)

// Config is the resolved companion configuration.
type Config struct {
	SocketPath   string
	Trigger      string
	ConnectDelay time.Duration
	Presenter    string
	Dialog       string
	SubtitleTool []string
	Debug        bool
}

// fileConfig mirrors the on-disk TOML layout.
type fileConfig struct {
	SocketPath   string `toml:"socket_path" comment:"mpv --input-ipc-server path"`
	Trigger      string `toml:"trigger" comment:"client-message that opens the menu (script-message <trigger>)"`
	ConnectDelay string `toml:"connect_delay" comment:"wait between connection attempts"`
	Presenter    string `toml:"presenter" comment:"auto, tray or terminal"`
	Dialog       string `toml:"dialog" comment:"zenity or kdialog"`
	SubtitleTool string `toml:"subtitle_tool" comment:"subtitle downloader; the media path is appended"`
	Debug        bool   `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SocketPath:   ipc.DefaultEndpoint().Address,
		Trigger:      defaultTrigger,
		ConnectDelay: ipc.DefaultConnectDelay,
		Presenter:    defaultPresenter,
		Dialog:       defaultDialog,
		SubtitleTool: strings.Fields(defaultSubtitleTool),
	}
}

// Path returns the configuration file path: MPVMENU_CONFIG_PATH when set,
// otherwise config.toml under the user config directory.
func Path() (string, error) {
	if custom := strings.TrimSpace(os.Getenv("MPVMENU_CONFIG_PATH")); custom != "" {
		return expandPath(custom)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Load reads the configuration at path (Path() when empty). A missing file
// yields the defaults; empty fields keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if v := strings.TrimSpace(raw.SocketPath); v != "" {
		if cfg.SocketPath, err = expandPath(v); err != nil {
			return Config{}, fmt.Errorf("socket_path: %w", err)
		}
	}
	if v := strings.TrimSpace(raw.Trigger); v != "" {
		cfg.Trigger = v
	}
	if v := strings.TrimSpace(raw.ConnectDelay); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("connect_delay: %w", err)
		}
		if delay <= 0 {
			return Config{}, fmt.Errorf("connect_delay must be positive, got %s", v)
		}
		cfg.ConnectDelay = delay
	}
	if v := strings.TrimSpace(raw.Presenter); v != "" {
		cfg.Presenter = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Dialog); v != "" {
		cfg.Dialog = strings.ToLower(v)
	}
	if fields := strings.Fields(raw.SubtitleTool); len(fields) > 0 {
		cfg.SubtitleTool = fields
	}
	cfg.Debug = raw.Debug

	return cfg, nil
}

// Save writes cfg to path (Path() when empty), replacing any existing file
// atomically.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(fileConfig{
		SocketPath:   cfg.SocketPath,
		Trigger:      cfg.Trigger,
		ConnectDelay: cfg.ConnectDelay.String(),
		Presenter:    cfg.Presenter,
		Dialog:       cfg.Dialog,
		SubtitleTool: strings.Join(cfg.SubtitleTool, " "),
		Debug:        cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	tempFile := resolved + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tempFile, resolved); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return Path()
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
