// Package repositories implements the SQLite cache for search and playlist results.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TrackRepository] : tracks seen in search and generate responses, unique by Spotify id
//   - [PlaylistRepository] : generated playlists with ordered track ids and export URL
//   - [TrackCacheAdapter] : dedupes and refreshes tracks as they arrive from the backend
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
