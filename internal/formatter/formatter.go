// package formatter renders generated playlists as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names, for flag help.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name, case-insensitively. "md" and "txt" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Render dispatches to the exporter for f.
func Render(f Format, playlist *models.Playlist) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(playlist)
	case FormatMarkdown:
		return ExportToMarkdown(playlist, "")
	case FormatJSON:
		return shared.MarshalJSON(playlist, true)
	case FormatText:
		return ExportToText(playlist)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts a playlist to CSV with one row per track and the audio features as columns.
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Spotify ID", "Track", "Artist", "Genre", "Tempo", "Energy", "Valence", "Danceability"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range playlist.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.SpotifyTrackID,
			track.TrackName,
			track.Artist,
			track.Genre,
			strconv.FormatFloat(track.Tempo, 'f', 2, 64),
			strconv.FormatFloat(track.Energy, 'f', 3, 64),
			strconv.FormatFloat(track.Valence, 'f', 3, 64),
			strconv.FormatFloat(track.Danceability, 'f', 3, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to a Markdown table, linking the Spotify playlist when exportedURL is set.
func ExportToMarkdown(playlist *models.Playlist, exportedURL string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name())

	if exportedURL != "" {
		fmt.Fprintf(&buf, "[Open in Spotify](%s)\n\n", exportedURL)
	}

	if seed := playlist.Seed(); seed != nil {
		fmt.Fprintf(&buf, "**Seed**: %s - %s\n", seed.Artist, seed.TrackName)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(playlist.Tracks))

	buf.WriteString("| # | Track | Artist | Genre | Tempo | Energy | Valence | Danceability |\n")
	buf.WriteString("|---|-------|--------|-------|-------|--------|---------|--------------|\n")
	for i, t := range playlist.Tracks {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			escapeCell(t.TrackName),
			escapeCell(t.Artist),
			escapeCell(t.Genre),
			shared.FormatTempo(t.Tempo),
			shared.FormatPercent(t.Energy),
			shared.FormatPercent(t.Valence),
			shared.FormatPercent(t.Danceability),
		)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text format
func ExportToText(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", playlist.Name())
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(playlist.Tracks))

	for i, t := range playlist.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, t.Artist, t.TrackName, shared.FormatTempo(t.Tempo))
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteExport renders playlist in format f and writes it to path.
//
// An empty path derives one from the seed track id and the format's extension.
// Parent directories are created as needed. Returns the path written.
func WriteExport(playlist *models.Playlist, f Format, path string) (string, error) {
	if path == "" {
		base := "playlist"
		if seed := playlist.Seed(); seed != nil {
			base = seed.SpotifyTrackID
		}
		path = base + f.Extension()
	}

	data, err := Render(f, playlist)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}
