package menu

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/rpc"
)

// Kind identifies one of the closed set of menu item behaviours.
type Kind int

const (
	KindAction Kind = iota + 1
	KindToggle
	KindFilterToggle
	KindPropertySetter
	KindCommand
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindToggle:
		return "toggle"
	case KindFilterToggle:
		return "filter"
	case KindPropertySetter:
		return "set"
	case KindCommand:
		return "command"
	case KindSeparator:
		return "separator"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FilterChain selects the audio or video filter chain.
type FilterChain string

const (
	AudioFilters FilterChain = "audio"
	VideoFilters FilterChain = "video"
)

// Property returns the player property holding the chain ("af" or "vf").
func (f FilterChain) Property() string {
	if f == AudioFilters {
		return "af"
	}
	return "vf"
}

// Player is the subset of the RPC client menu items act on.
type Player interface {
	Command(name string, args ...any) (rpc.Result, error)
	GetProp(name string) (json.RawMessage, bool, error)
	SetProp(name string, value any) (bool, error)
}

// ActionFunc is the effect of an Action item. It may schedule a post-menu
// action through env.Defer instead of acting immediately.
type ActionFunc func(ctx context.Context, env *Env) error

// Item is a menu leaf. Only the fields relevant to Kind are set.
type Item struct {
	Label string
	Kind  Kind

	// Toggle and PropertySetter.
	Property string
	Value    any

	// FilterToggle.
	Chain      FilterChain
	FilterName string
	FilterOpts string

	// Command.
	Command string
	Args    []any

	// Action.
	Run ActionFunc
}

// Action runs fn when selected.
func Action(label string, fn ActionFunc) Item {
	return Item{Label: label, Kind: KindAction, Run: fn}
}

// Toggle flips a boolean property.
func Toggle(label, property string) Item {
	return Item{Label: label, Kind: KindToggle, Property: property}
}

// FilterToggle adds or removes a named filter on an audio or video chain.
func FilterToggle(label string, chain FilterChain, name, opts string) Item {
	return Item{Label: label, Kind: KindFilterToggle, Chain: chain, FilterName: name, FilterOpts: opts}
}

// SetProperty writes value to property when selected.
func SetProperty(label, property string, value any) Item {
	return Item{Label: label, Kind: KindPropertySetter, Property: property, Value: value}
}

// Command sends a player command with fixed arguments.
func Command(label, name string, args ...any) Item {
	return Item{Label: label, Kind: KindCommand, Command: name, Args: args}
}

// Separator is a non-interactive divider.
func Separator() Item {
	return Item{Kind: KindSeparator}
}

// Checkable reports whether the item displays a check state.
func (it Item) Checkable() bool {
	return it.Kind == KindToggle || it.Kind == KindFilterToggle
}

// FilterSpec is the argument passed to the chain's toggle command.
func (it Item) FilterSpec() string {
	if it.FilterOpts == "" {
		return it.FilterName
	}
	return it.FilterName + "=" + it.FilterOpts
}

// init queries the state a checkable item shows. Soft failures default to
// unchecked; only transport faults are returned.
func (it Item) init(p Player) (bool, error) {
	switch it.Kind {
	case KindToggle:
		raw, ok, err := p.GetProp(it.Property)
		if err != nil {
			return false, err
		}
		if !ok {
			logging.Debugf("toggle %q: property %s unavailable, assuming off", it.Label, it.Property)
			return false, nil
		}
		var state bool
		if err := json.Unmarshal(raw, &state); err != nil {
			logging.Debugf("toggle %q: property %s is not boolean (%s), assuming off", it.Label, it.Property, raw)
			return false, nil
		}
		return state, nil
	case KindFilterToggle:
		raw, ok, err := p.GetProp(it.Chain.Property())
		if err != nil {
			return false, err
		}
		if !ok {
			logging.Debugf("filter %q: %s chain unavailable", it.Label, it.Chain)
			return false, nil
		}
		return chainContains(raw, it.FilterName), nil
	default:
		return false, nil
	}
}

// activate performs the item's effect. checked is the state captured by init.
func (it Item) activate(ctx context.Context, env *Env, checked bool) error {
	p := env.Player
	switch it.Kind {
	case KindAction:
		if it.Run == nil {
			return nil
		}
		return it.Run(ctx, env)
	case KindToggle:
		return softSet(p, it.Property, !checked)
	case KindFilterToggle:
		return softCommand(p, it.Chain.Property(), "toggle", it.FilterSpec())
	case KindPropertySetter:
		return softSet(p, it.Property, it.Value)
	case KindCommand:
		return softCommand(p, it.Command, it.Args...)
	default:
		return nil
	}
}

type filterEntry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func chainContains(raw json.RawMessage, name string) bool {
	var entries []filterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logging.Debugf("unexpected filter chain %s: %v", raw, err)
		return false
	}
	for _, e := range entries {
		if e.Name == name || (e.Label != "" && e.Label == name) {
			return true
		}
	}
	return false
}

func softSet(p Player, property string, value any) error {
	ok, err := p.SetProp(property, value)
	if err != nil {
		return err
	}
	if !ok {
		logging.Debugf("set %s=%v rejected by player", property, value)
	}
	return nil
}

func softCommand(p Player, name string, args ...any) error {
	res, err := p.Command(name, args...)
	if err != nil {
		return err
	}
	if !res.OK {
		logging.Debugf("command %s %v rejected: %s", name, args, res.Status)
	}
	return nil
}
