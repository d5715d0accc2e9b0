package artists

import "fineart/internal/domain/artists"

type ArtistRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Nationality string `json:"nationality"`
	Discipline  string `json:"discipline"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"imageUrl"`
}

// apply keeps an existing slug unless a new one is given.
func (r ArtistRequest) apply(a *artists.Artist) {
	a.Name = r.Name
	if r.Slug != "" {
		a.Slug = r.Slug
	}
	a.Nationality = r.Nationality
	a.Discipline = r.Discipline
	a.Bio = r.Bio
	a.ImageURL = r.ImageURL
	a.EnsureSlug()
}
