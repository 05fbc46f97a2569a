// Package models defines the entities exchanged with the playlist backend and the ones kept in the local cache.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from backend JSON
//   - [Track] : a song with the audio features the backend ranks on
//   - [Playlist] : an ordered list of tracks, seed first
//   - [SearchResult] : one page of search hits
//   - [ExportResult] : the outcome of saving a playlist to Spotify
//   - [UserInfo] : the signed-in Spotify profile
//   - [Session] : a point-in-time snapshot of "am I signed in"
//
// 2. Persistent Entities: cache rows with lifecycle metadata
//   - [PersistedTrack] : a track seen in search or generate results
//   - [PersistedPlaylist] : a generated playlist and, once exported, its Spotify URL
//
// Persistent entities implement [Model]; the [Repository] interface defines the CRUD surface.
package models
