package model

// Genre is a category label attached to plays. Names are unique.
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
