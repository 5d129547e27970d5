// Package config loads the companion's TOML configuration.
//
// Resolution order for the file:
//
//  1. An explicit path (the --config flag)
//  2. MPVMENU_CONFIG_PATH
//  3. <user config dir>/mpvmenu/config.toml
//
// A missing file is not an error; every field has a default. Command-line
// flags and their MPVMENU_* environment variables override the file.
//
// Example config.toml:
//
//	socket_path = "/tmp/mpvsocket"
//	trigger = "popup_menu"
//	connect_delay = "2s"
//	presenter = "tray"
//	dialog = "kdialog"
//	subtitle_tool = "subliminal download -l en -l de"
//	debug = false
//
// The player must be started with a matching IPC server and a binding that
// sends the trigger, e.g. in input.conf:
//
//	MBTN_RIGHT script-message popup_menu
package config
