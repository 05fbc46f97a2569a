package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const playlistColumns = `id, sequence, seed_track_id, name, exported_url, created_at, updated_at, deleted_at`

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist] for generated playlists.
//
// Track order is stored in playlist_tracks, one row per position.
type PlaylistRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PersistedPlaylist] = (*PlaylistRepository)(nil)

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts the playlist and its ordered track ids in one transaction.
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO playlists (id, sequence, seed_track_id, name, exported_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		playlist.ID(),
		sequence,
		playlist.SeedTrackID(),
		playlist.Name(),
		playlist.ExportedURL(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO playlist_tracks (playlist_id, position, spotify_track_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, id := range playlist.TrackIDs() {
		if _, err := stmt.Exec(playlist.ID(), i, id); err != nil {
			return fmt.Errorf("failed to insert playlist track %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}
	return nil
}

// Get retrieves a playlist and its tracks by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ? AND deleted_at IS NULL`

	playlist, err := r.scan(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTracks(playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// MarkExported records the Spotify URL a playlist was exported to.
func (r *PlaylistRepository) MarkExported(id, playlistURL string) error {
	query := `UPDATE playlists SET exported_url = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, playlistURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark playlist exported: %w", err)
	}
	return expectOne(result, shared.ErrPlaylistNotFound, id)
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	query := `UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return expectOne(result, shared.ErrPlaylistNotFound, id)
}

// Clear removes every playlist and its track rows.
func (r *PlaylistRepository) Clear() (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM playlist_tracks`); err != nil {
		return 0, fmt.Errorf("failed to clear playlist tracks: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM playlists`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear playlists: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, tx.Commit()
}

// List retrieves playlists matching the given criteria, newest first, excluding soft-deleted playlists.
//
// Supported criteria: "seed_track_id" (string), "exported" (bool), "limit" (int).
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE deleted_at IS NULL`
	args := []any{}

	if seed, ok := criteria["seed_track_id"].(string); ok && seed != "" {
		query += " AND seed_track_id = ?"
		args = append(args, seed)
	}

	if exported, ok := criteria["exported"].(bool); ok {
		if exported {
			query += " AND exported_url != ''"
		} else {
			query += " AND exported_url = ''"
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	// Tracks are loaded after the cursor closes; the in-memory cache runs on a single connection.
	for _, p := range playlists {
		if err := r.loadTracks(p); err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

func (r *PlaylistRepository) loadTracks(playlist *models.PersistedPlaylist) error {
	rows, err := r.db.Query(`SELECT spotify_track_id FROM playlist_tracks WHERE playlist_id = ? ORDER BY position ASC`, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan playlist track: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	playlist.SetTrackIDs(ids)
	return nil
}

// scan reads one playlist row; track ids are filled in by loadTracks.
func (r *PlaylistRepository) scan(row scanner) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		seedTrackID string
		name        string
		exportedURL string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &seedTrackID, &name, &exportedURL, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.RestorePersistedPlaylist(sequence, seedTrackID, name, exportedURL, nil)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
