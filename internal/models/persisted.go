package models

import (
	"fmt"
	"time"
)

// base carries the identity and lifecycle fields shared by persisted entities.
type base struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newBase(sequence int) base {
	now := time.Now()
	return base{sequence: sequence, createdAt: now, updatedAt: now}
}

func (b *base) ID() string                { return b.id }
func (b *base) Sequence() int             { return b.sequence }
func (b *base) CreatedAt() time.Time      { return b.createdAt }
func (b *base) UpdatedAt() time.Time      { return b.updatedAt }
func (b *base) DeletedAt() *time.Time     { return b.deletedAt }
func (b *base) SetID(id string)           { b.id = id }
func (b *base) SetSequence(seq int)       { b.sequence = seq }
func (b *base) SetCreatedAt(t time.Time)  { b.createdAt = t }
func (b *base) SetUpdatedAt(t time.Time)  { b.updatedAt = t }
func (b *base) SetDeletedAt(t *time.Time) { b.deletedAt = t }
func (b *base) IsDeleted() bool           { return b.deletedAt != nil }

// PersistedTrack is a cached [Track].
type PersistedTrack struct {
	base
	track Track
}

var _ Model = (*PersistedTrack)(nil)

// NewPersistedTrack wraps track for storage.
func NewPersistedTrack(sequence int, track Track) *PersistedTrack {
	return &PersistedTrack{base: newBase(sequence), track: track}
}

func (t *PersistedTrack) Track() Track           { return t.track }
func (t *PersistedTrack) SpotifyTrackID() string { return t.track.SpotifyTrackID }

// Validate requires the Spotify id and a name; the backend always sends both.
func (t *PersistedTrack) Validate() error {
	if t.track.SpotifyTrackID == "" {
		return fmt.Errorf("spotify track id is required")
	}
	if t.track.TrackName == "" {
		return fmt.Errorf("track name is required")
	}
	return nil
}

// PersistedPlaylist is a cached generated playlist.
type PersistedPlaylist struct {
	base
	seedTrackID string
	name        string
	trackIDs    []string
	exportedURL string
}

var _ Model = (*PersistedPlaylist)(nil)

// NewPersistedPlaylist records playlist, keeping its track order.
func NewPersistedPlaylist(sequence int, playlist *Playlist) *PersistedPlaylist {
	p := &PersistedPlaylist{base: newBase(sequence), name: playlist.Name()}
	if seed := playlist.Seed(); seed != nil {
		p.seedTrackID = seed.SpotifyTrackID
	}
	for _, t := range playlist.Tracks {
		p.trackIDs = append(p.trackIDs, t.SpotifyTrackID)
	}
	return p
}

// RestorePersistedPlaylist rebuilds a playlist row read from storage.
func RestorePersistedPlaylist(sequence int, seedTrackID, name, exportedURL string, trackIDs []string) *PersistedPlaylist {
	return &PersistedPlaylist{
		base:        newBase(sequence),
		seedTrackID: seedTrackID,
		name:        name,
		trackIDs:    trackIDs,
		exportedURL: exportedURL,
	}
}

func (p *PersistedPlaylist) SeedTrackID() string       { return p.seedTrackID }
func (p *PersistedPlaylist) Name() string              { return p.name }
func (p *PersistedPlaylist) TrackIDs() []string        { return p.trackIDs }
func (p *PersistedPlaylist) ExportedURL() string       { return p.exportedURL }
func (p *PersistedPlaylist) SetExportedURL(url string) { p.exportedURL = url }
func (p *PersistedPlaylist) SetTrackIDs(ids []string)  { p.trackIDs = ids }
func (p *PersistedPlaylist) Exported() bool            { return p.exportedURL != "" }

// Validate requires a seed and at least one track.
func (p *PersistedPlaylist) Validate() error {
	if p.seedTrackID == "" {
		return fmt.Errorf("seed track id is required")
	}
	if len(p.trackIDs) == 0 {
		return fmt.Errorf("playlist has no tracks")
	}
	for i, id := range p.trackIDs {
		if id == "" {
			return fmt.Errorf("track %d has no spotify id", i)
		}
	}
	return nil
}
