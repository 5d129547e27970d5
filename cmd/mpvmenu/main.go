package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/example/mpvmenu/internal/config"
	"github.com/example/mpvmenu/internal/desktop"
	"github.com/example/mpvmenu/internal/display"
	"github.com/example/mpvmenu/internal/ipc"
	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/menu"
	"github.com/example/mpvmenu/internal/rpc"
	"github.com/example/mpvmenu/internal/session"
)

// popupTimeout bounds how long `popup` waits for the player's socket.
const popupTimeout = 5 * time.Second

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		logging.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "mpvmenu: %v\n", err)
	}
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "mpvmenu",
		Usage: "context menu companion for mpv",
		Description: "Connects to mpv's JSON IPC socket and shows a context menu whenever mpv sends\n" +
			"`script-message <trigger>`. Start mpv with --input-ipc-server pointing at the\n" +
			"socket and bind e.g. `MBTN_RIGHT script-message popup_menu` in input.conf.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "configuration file",
				Sources: cli.EnvVars("MPVMENU_CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "socket",
				Usage:   "mpv IPC socket path",
				Sources: cli.EnvVars("MPVMENU_SOCKET"),
			},
			&cli.StringFlag{
				Name:    "trigger",
				Usage:   "client-message that opens the menu",
				Sources: cli.EnvVars("MPVMENU_TRIGGER"),
			},
			&cli.StringFlag{
				Name:    "presenter",
				Usage:   "menu surface: auto, tray or terminal",
				Sources: cli.EnvVars("MPVMENU_PRESENTER"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log IPC traffic and menu decisions",
				Sources: cli.EnvVars("MPVMENU_DEBUG"),
			},
		},
		Action: runCompanion,
		Commands: []*cli.Command{
			{
				Name:   "popup",
				Usage:  "ask a running mpv to open the menu",
				Action: runPopup,
			},
			{
				Name:   "layout",
				Usage:  "print the menu layout",
				Action: runLayout,
			},
			{
				Name:  "init-config",
				Usage: "write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
				},
				Action: runInitConfig,
			},
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if cmd.IsSet("socket") {
		cfg.SocketPath = cmd.String("socket")
	}
	if cmd.IsSet("trigger") {
		cfg.Trigger = cmd.String("trigger")
	}
	if cmd.IsSet("presenter") {
		cfg.Presenter = cmd.String("presenter")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if strings.TrimSpace(cfg.Trigger) == "" {
		return config.Config{}, errors.New("trigger must not be empty")
	}
	if cfg.Debug {
		logging.EnableDebug()
	}
	return cfg, nil
}

func endpoint(cfg config.Config) ipc.Endpoint {
	return ipc.Endpoint{Network: "unix", Address: cfg.SocketPath}
}

func runCompanion(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mode, err := display.ParseMode(cfg.Presenter)
	if err != nil {
		return err
	}
	dialog, err := desktop.ParseDialog(cfg.Dialog)
	if err != nil {
		return err
	}

	tty := term.IsTerminal(int(os.Stdin.Fd()))
	mode, err = display.Resolve(mode, display.TrayAvailable(), tty)
	if err != nil {
		return err
	}

	ep := endpoint(cfg)
	dial := func(ctx context.Context) (*ipc.Conn, error) {
		logging.Infof("connecting to mpv at %s", ep)
		return ipc.Connect(ctx, ep, cfg.ConnectDelay)
	}
	opts := session.Options{
		Trigger: cfg.Trigger,
		Layout:  menu.DefaultLayout(),
		Desktop: desktop.New(dialog, cfg.SubtitleTool),
	}
	logging.Infof("using %s presenter, trigger %q", mode, cfg.Trigger)

	if mode == display.ModeTray {
		tray := display.NewTray()
		opts.Presenter = tray
		return tray.Run(ctx, session.NewSupervisor(dial, opts).Run)
	}
	opts.Presenter = display.NewTerminal()
	return session.NewSupervisor(dial, opts).Run(ctx)
}

func runPopup(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, popupTimeout)
	defer cancel()
	ep := endpoint(cfg)
	conn, err := ipc.Connect(ctx, ep, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("mpv is not listening on %s: %w", ep.Address, err)
	}
	client := rpc.NewClient(conn)
	defer client.Close()

	res, err := client.Command("script-message", cfg.Trigger)
	if err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("script-message %s: %s", cfg.Trigger, res.Status)
	}
	return nil
}

func runLayout(_ context.Context, cmd *cli.Command) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	return printLayout(cmd.Root().Writer, menu.DefaultLayout())
}

func printLayout(w io.Writer, nodes []menu.Node) error {
	var err error
	menu.Walk(nodes, func(n menu.Node, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describeNode(n))
	})
	return err
}

func describeNode(n menu.Node) string {
	switch {
	case n.IsTrackList():
		return fmt.Sprintf("%s/ (%s tracks)", n.Label, n.Tracks)
	case !n.IsLeaf():
		return n.Label + "/"
	}

	it := n.Item
	switch it.Kind {
	case menu.KindSeparator:
		return "----"
	case menu.KindToggle:
		return fmt.Sprintf("%s [toggle %s]", it.Label, it.Property)
	case menu.KindFilterToggle:
		return fmt.Sprintf("%s [%s toggle %s]", it.Label, it.Chain.Property(), it.FilterSpec())
	case menu.KindPropertySetter:
		return fmt.Sprintf("%s [set %s=%v]", it.Label, it.Property, it.Value)
	case menu.KindCommand:
		parts := []string{it.Command}
		for _, a := range it.Args {
			parts = append(parts, fmt.Sprint(a))
		}
		return fmt.Sprintf("%s [%s]", it.Label, strings.Join(parts, " "))
	default:
		return it.Label
	}
}

func runInitConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("config")
	if path == "" {
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "wrote %s\n", path)
	return err
}
