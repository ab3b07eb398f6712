package model

import "time"

// Play is a stage production that can be scheduled in halls as
// performances. Genres and Artists form many-to-many relations kept in
// junction tables; they are loaded on demand by the repository.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – play title (no uniqueness constraint).
//  Description – synopsis text.
//  Acts        – number of acts in the play.
//  Genres      – associated genres (optional, loaded separately).
//  Artists     – associated artists (optional, loaded separately).
type Play struct {
	ID          uint64    `json:"id"`                // plays.id
	Title       string    `json:"title"`             // plays.title
	Description string    `json:"description"`       // plays.description
	Acts        int       `json:"acts"`              // plays.acts
	Genres      []Genre   `json:"genres,omitempty"`  // via play_genres
	Artists     []Artist  `json:"artists,omitempty"` // via play_artists
	CreatedAt   time.Time `json:"created_at"`        // plays.created_at
	UpdatedAt   time.Time `json:"updated_at"`        // plays.updated_at
}
