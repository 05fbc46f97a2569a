package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const trackColumns = `id, sequence, spotify_track_id, track_name, artist, genre, tempo, energy, valence, danceability, created_at, updated_at, deleted_at`

// TrackRepository implements models.Repository[*models.PersistedTrack] for track caching.
//
// Tracks are cached from search and generate responses and are unique by Spotify id.
type TrackRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PersistedTrack] = (*TrackRepository)(nil)

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.SetID(shared.GenerateID())
	track.SetSequence(sequence)

	t := track.Track()
	query := `
		INSERT INTO tracks (id, sequence, spotify_track_id, track_name, artist, genre, tempo, energy, valence, danceability, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		track.ID(),
		sequence,
		t.SpotifyTrackID,
		t.TrackName,
		t.Artist,
		t.Genre,
		t.Tempo,
		t.Energy,
		t.Valence,
		t.Danceability,
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves a live track by its Spotify id
func (r *TrackRepository) GetBySpotifyID(spotifyTrackID string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE spotify_track_id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, spotifyTrackID))
}

// Refresh overwrites the audio features of the row with the same Spotify id and clears any soft delete.
func (r *TrackRepository) Refresh(track models.Track) error {
	query := `
		UPDATE tracks
		SET track_name = ?, artist = ?, genre = ?, tempo = ?, energy = ?, valence = ?, danceability = ?,
		    updated_at = ?, deleted_at = NULL
		WHERE spotify_track_id = ?
	`

	result, err := r.db.Exec(query,
		track.TrackName,
		track.Artist,
		track.Genre,
		track.Tempo,
		track.Energy,
		track.Valence,
		track.Danceability,
		time.Now(),
		track.SpotifyTrackID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh track: %w", err)
	}
	return expectOne(result, shared.ErrTrackNotFound, track.SpotifyTrackID)
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	query := `UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return expectOne(result, shared.ErrTrackNotFound, id)
}

// Clear removes every cached track, deleted or not, and returns how many rows went.
func (r *TrackRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM tracks`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear tracks: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves tracks matching the given criteria, excluding soft-deleted tracks.
//
// Supported criteria: "artist" (exact), "genre" (exact), "limit" (int).
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// scan reads one row from either [sql.Row] or [sql.Rows] into a [models.PersistedTrack]
func (r *TrackRepository) scan(row scanner) (*models.PersistedTrack, error) {
	var (
		id        string
		sequence  int
		t         models.Track
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &t.SpotifyTrackID, &t.TrackName, &t.Artist, &t.Genre,
		&t.Tempo, &t.Energy, &t.Valence, &t.Danceability, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewPersistedTrack(sequence, t)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}
