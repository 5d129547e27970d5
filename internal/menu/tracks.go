package menu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TrackType is the track-list "type" value.
type TrackType string

const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
	TrackSub   TrackType = "sub"
)

// SelectProperty is the property that selects a track of this type.
func (t TrackType) SelectProperty() string {
	switch t {
	case TrackVideo:
		return "vid"
	case TrackAudio:
		return "aid"
	default:
		return "sid"
	}
}

// Track is one row of the player's track table.
type Track struct {
	Type             TrackType
	ID               int
	SrcID            int
	Title            string
	Lang             string
	Default          bool
	External         bool
	ExternalFilename string
}

// DisplayName formats "<id> <title> (<lang>) (default)", omitting absent parts.
func (t Track) DisplayName() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(t.ID))
	b.WriteByte(' ')
	if t.Title != "" {
		b.WriteString(t.Title)
	} else {
		b.WriteString("Untitled")
	}
	if t.Lang != "" {
		fmt.Fprintf(&b, " (%s)", t.Lang)
	}
	if t.Default {
		b.WriteString(" (default)")
	}
	return b.String()
}

// TrackGroups is the track table split by type.
type TrackGroups struct {
	Video []Track
	Audio []Track
	Sub   []Track
}

// Of returns the tracks of one type.
func (g TrackGroups) Of(t TrackType) []Track {
	switch t {
	case TrackVideo:
		return g.Video
	case TrackAudio:
		return g.Audio
	case TrackSub:
		return g.Sub
	default:
		return nil
	}
}

// QueryTracks reads track-list/* from the player and groups the rows by type.
// Missing fields leave zero values; rows of unknown type are skipped.
func QueryTracks(p Player) (TrackGroups, error) {
	var groups TrackGroups

	var count int
	if _, err := getInto(p, "track-list/count", &count); err != nil {
		return groups, err
	}

	for i := 0; i < count; i++ {
		track, err := queryTrack(p, i)
		if err != nil {
			return groups, err
		}
		switch track.Type {
		case TrackVideo:
			groups.Video = append(groups.Video, track)
		case TrackAudio:
			groups.Audio = append(groups.Audio, track)
		case TrackSub:
			groups.Sub = append(groups.Sub, track)
		}
	}
	return groups, nil
}

func queryTrack(p Player, index int) (Track, error) {
	var t Track
	prefix := fmt.Sprintf("track-list/%d/", index)

	var kind string
	fields := []struct {
		name string
		dst  any
	}{
		{"type", &kind},
		{"id", &t.ID},
		{"src-id", &t.SrcID},
		{"title", &t.Title},
		{"lang", &t.Lang},
		{"default", &t.Default},
		{"external", &t.External},
	}
	for _, f := range fields {
		if _, err := getInto(p, prefix+f.name, f.dst); err != nil {
			return t, err
		}
	}
	t.Type = TrackType(kind)

	if t.External {
		if _, err := getInto(p, prefix+"external-filename", &t.ExternalFilename); err != nil {
			return t, err
		}
	}
	return t, nil
}

// getInto reads a property into dst. Unavailable or mistyped values leave dst
// untouched and report false.
func getInto(p Player, name string, dst any) (bool, error) {
	raw, ok, err := p.GetProp(name)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}
