package musicdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// orUnknown fills in NULLs from the LEFT JOINs for album-less tracks.
func orUnknown(s sql.NullString) string {
	if !s.Valid {
		return "Unknown"
	}
	return s.String
}

// AlbumsByArtist lists album titles matching an artist name substring.
func (d *DB) AlbumsByArtist(ctx context.Context, artist string) (string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT Album.Title, Artist.Name
		FROM Album
		JOIN Artist ON Album.ArtistId = Artist.ArtistId
		WHERE Artist.Name LIKE '%' || ? || '%'`,
		artist)
	if err != nil {
		return "", fmt.Errorf("albums by artist: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var title, name string
		if err := rows.Scan(&title, &name); err != nil {
			return "", fmt.Errorf("scan album row: %w", err)
		}
		fmt.Fprintf(&b, "Album: %s | Artist: %s\n", title, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No albums found for artist: %s", artist), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// TracksByArtist lists track names for artists matching the name
// substring, capped at 20 rows.
func (d *DB) TracksByArtist(ctx context.Context, artist string) (string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT Track.Name, Artist.Name
		FROM Album
		LEFT JOIN Artist ON Album.ArtistId = Artist.ArtistId
		LEFT JOIN Track ON Track.AlbumId = Album.AlbumId
		WHERE Artist.Name LIKE '%' || ? || '%' AND Track.Name IS NOT NULL
		LIMIT 20`,
		artist)
	if err != nil {
		return "", fmt.Errorf("tracks by artist: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var song, name string
		if err := rows.Scan(&song, &name); err != nil {
			return "", fmt.Errorf("scan track row: %w", err)
		}
		fmt.Fprintf(&b, "Song: %s | Artist: %s\n", song, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No tracks found for artist: %s", artist), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SongsByGenre returns one representative song per artist for genres
// matching the name substring, capped at 8 rows.
func (d *DB) SongsByGenre(ctx context.Context, genre string) (string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT Track.Name, Artist.Name
		FROM Track
		LEFT JOIN Album ON Track.AlbumId = Album.AlbumId
		LEFT JOIN Artist ON Album.ArtistId = Artist.ArtistId
		WHERE Track.GenreId IN (SELECT GenreId FROM Genre WHERE Name LIKE '%' || ? || '%')
		GROUP BY Artist.Name
		LIMIT 8`,
		genre)
	if err != nil {
		return "", fmt.Errorf("songs by genre: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var song string
		var name sql.NullString
		if err := rows.Scan(&song, &name); err != nil {
			return "", fmt.Errorf("scan genre row: %w", err)
		}
		fmt.Fprintf(&b, "Song: %s | Artist: %s\n", song, orUnknown(name))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No songs found for the genre: %s", genre), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SearchSongs checks whether any track matches the title substring,
// capped at 10 rows.
func (d *DB) SearchSongs(ctx context.Context, title string) (string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT Track.Name, Artist.Name, Album.Title
		FROM Track
		LEFT JOIN Album ON Track.AlbumId = Album.AlbumId
		LEFT JOIN Artist ON Album.ArtistId = Artist.ArtistId
		WHERE Track.Name LIKE '%' || ? || '%'
		LIMIT 10`,
		title)
	if err != nil {
		return "", fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var song string
		var artist, album sql.NullString
		if err := rows.Scan(&song, &artist, &album); err != nil {
			return "", fmt.Errorf("scan song row: %w", err)
		}
		fmt.Fprintf(&b, "Song: %s | Artist: %s | Album: %s\n", song, orUnknown(artist), orUnknown(album))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No songs found matching: %s", title), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
