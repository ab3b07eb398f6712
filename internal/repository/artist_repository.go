package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrArtistNotFound is returned when an artist lookup fails.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistRepo provides persistence for artists.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{db: db} }

// Create inserts an artist and populates the generated ID.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	var about, image sql.NullString
	if a.About != nil {
		about = sql.NullString{String: *a.About, Valid: true}
	}
	if a.Image != nil {
		image = sql.NullString{String: *a.Image, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO artists (first_name, last_name, about, image) VALUES (?, ?, ?, ?)`,
		a.FirstName, a.LastName, about, image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an artist by ID, returning ErrArtistNotFound when no
// row exists.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var a model.Artist
	var about, image sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, about, image FROM artists WHERE id = ?`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName, &about, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	if about.Valid {
		v := about.String
		a.About = &v
	}
	if image.Valid {
		v := image.String
		a.Image = &v
	}
	return &a, nil
}

// List returns artists matching the optional case-insensitive search over
// first and last name, ordered by last then first name, with the total
// match count for pagination.
func (r *ArtistRepo) List(ctx context.Context, search string, page, pageSize int) ([]model.Artist, int64, error) {
	cond := "1=1"
	args := []any{}
	if search != "" {
		cond = "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)"
		pattern := "%" + lower(search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artists WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, about, image FROM artists WHERE `+cond+
			` ORDER BY last_name, first_name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	artists := make([]model.Artist, 0)
	for rows.Next() {
		var a model.Artist
		var about, image sql.NullString
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &about, &image); err != nil {
			return nil, 0, err
		}
		if about.Valid {
			v := about.String
			a.About = &v
		}
		if image.Valid {
			v := image.String
			a.Image = &v
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

// UpdateImage stores the uploaded portrait path for an artist.
func (r *ArtistRepo) UpdateImage(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE artists SET image = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// PlayRef is a play reference shown inside an artist's detail view.
type PlayRef struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// ListPlays returns the plays an artist appears in.
func (r *ArtistRepo) ListPlays(ctx context.Context, artistID uint64) ([]PlayRef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title
		 FROM plays p
		 JOIN play_artists pa ON pa.play_id = p.id
		 WHERE pa.artist_id = ?
		 ORDER BY p.title, p.id`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	plays := make([]PlayRef, 0)
	for rows.Next() {
		var p PlayRef
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}

// ExistAll reports whether every given artist ID exists.
func (r *ArtistRepo) ExistAll(ctx context.Context, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	query, args := inClause(`SELECT COUNT(*) FROM artists WHERE id IN `, ids)
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == len(dedupe(ids)), nil
}
