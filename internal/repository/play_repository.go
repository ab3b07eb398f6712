package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrPlayNotFound is returned when a play lookup fails.
var ErrPlayNotFound = errors.New("play not found")

// PlayRepo provides persistence for plays and their genre/artist
// relations.
type PlayRepo struct {
	db *sql.DB
}

// NewPlayRepo constructs a PlayRepo with the given DB handle.
func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

// Create inserts a play together with its genre and artist junction rows
// in one transaction. The caller must have verified the referenced IDs
// exist. The generated ID and timestamps are populated on success.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play, genreIDs, artistIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO plays (title, description, acts) VALUES (?, ?, ?)`,
		p.Title, p.Description, p.Acts)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	for _, gid := range dedupe(genreIDs) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO play_genres (play_id, genre_id) VALUES (?, ?)`, p.ID, gid); err != nil {
			return err
		}
	}
	for _, aid := range dedupe(artistIDs) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO play_artists (play_id, artist_id) VALUES (?, ?)`, p.ID, aid); err != nil {
			return err
		}
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM plays WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a play with its genres and artists loaded. It returns
// ErrPlayNotFound when no row exists.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (*model.Play, error) {
	var p model.Play
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, acts, created_at, updated_at FROM plays WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Acts, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	if p.Genres, err = r.genresFor(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Artists, err = r.artistsFor(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayRepo) genresFor(ctx context.Context, playID uint64) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name
		 FROM genres g
		 JOIN play_genres pg ON pg.genre_id = g.id
		 WHERE pg.play_id = ?
		 ORDER BY g.name`, playID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *PlayRepo) artistsFor(ctx context.Context, playID uint64) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.first_name, a.last_name, a.about, a.image
		 FROM artists a
		 JOIN play_artists pa ON pa.artist_id = a.id
		 WHERE pa.play_id = ?
		 ORDER BY a.last_name, a.first_name`, playID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	artists := make([]model.Artist, 0)
	for rows.Next() {
		var a model.Artist
		var about, image sql.NullString
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &about, &image); err != nil {
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
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// PlayFilter defines filters and pagination for play listings. Title is a
// case-insensitive substring match; GenreIDs and ArtistIDs match plays
// linked to any of the given IDs.
type PlayFilter struct {
	Title     string
	GenreIDs  []uint64
	ArtistIDs []uint64
	Page      int
	PageSize  int
}

// PlayListRow is one row of the play listing; genre names are flattened
// for compact list output.
type PlayListRow struct {
	ID     uint64   `json:"id"`
	Title  string   `json:"title"`
	Acts   int      `json:"acts"`
	Genres []string `json:"genres"`
}

// List returns plays matching the filter, ordered by title, with the
// total match count for pagination.
func (r *PlayRepo) List(ctx context.Context, f PlayFilter) ([]PlayListRow, int64, error) {
	where := []string{}
	args := []any{}
	if f.Title != "" {
		where = append(where, "LOWER(p.title) LIKE ?")
		args = append(args, "%"+lower(f.Title)+"%")
	}
	if len(f.GenreIDs) > 0 {
		clause, clauseArgs := inClause("p.id IN (SELECT play_id FROM play_genres WHERE genre_id IN ", f.GenreIDs)
		where = append(where, clause+")")
		args = append(args, clauseArgs...)
	}
	if len(f.ArtistIDs) > 0 {
		clause, clauseArgs := inClause("p.id IN (SELECT play_id FROM play_artists WHERE artist_id IN ", f.ArtistIDs)
		where = append(where, clause+")")
		args = append(args, clauseArgs...)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plays p WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.acts FROM plays p WHERE `+cond+
			` ORDER BY p.title, p.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]PlayListRow, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var row PlayListRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Acts); err != nil {
			return nil, 0, err
		}
		row.Genres = []string{}
		index[row.ID] = len(out)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return out, total, nil
	}

	// Attach genre names for the whole page in one query.
	ids := make([]uint64, 0, len(out))
	for _, row := range out {
		ids = append(ids, row.ID)
	}
	genreQuery, genreArgs := inClause(
		`SELECT pg.play_id, g.name
		 FROM play_genres pg
		 JOIN genres g ON g.id = pg.genre_id
		 WHERE pg.play_id IN `, ids)
	grows, err := r.db.QueryContext(ctx, genreQuery+` ORDER BY pg.play_id, g.name`, genreArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer grows.Close()
	for grows.Next() {
		var playID uint64
		var name string
		if err := grows.Scan(&playID, &name); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[playID]; ok {
			out[idx].Genres = append(out[idx].Genres, name)
		}
	}
	if err := grows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
