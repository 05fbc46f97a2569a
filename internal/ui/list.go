package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
	seed  bool
}

func (i trackItem) FilterValue() string { return i.track.TrackName + " " + i.track.Artist }
func (i trackItem) Title() string {
	if i.seed {
		return "★ " + i.track.TrackName
	}
	return i.track.TrackName
}
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Genre != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Genre)
	}
	return fmt.Sprintf("%s • %s • energy %s", desc, shared.FormatTempo(i.track.Tempo), shared.FormatPercent(i.track.Energy))
}

// trackItems converts tracks to list items. The first is marked as the seed when seeded is true.
func trackItems(tracks []models.Track, seeded bool) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, seed: seeded && i == 0}
	}
	return items
}
