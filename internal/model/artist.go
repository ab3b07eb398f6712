package model

// Artist is a performer that can be linked to plays. About and Image are
// optional; Image stores the relative path of an uploaded portrait.
type Artist struct {
	ID        uint64  `json:"id"`              // artists.id
	FirstName string  `json:"first_name"`      // artists.first_name
	LastName  string  `json:"last_name"`       // artists.last_name
	About     *string `json:"about,omitempty"` // artists.about (nullable)
	Image     *string `json:"image,omitempty"` // artists.image (nullable)
}

// FullName joins first and last name for display and search results.
func (a Artist) FullName() string {
	return a.FirstName + " " + a.LastName
}
