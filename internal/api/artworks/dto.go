package artworks

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fineart/internal/domain/artworks"
)

type ArtworkRequest struct {
	Title       string          `json:"title" binding:"required"`
	Status      string          `json:"status"`
	Price       decimal.Decimal `json:"price"`
	ArtistID    string          `json:"artistId" binding:"required"`
	MainTheme   string          `json:"mainTheme"`
	Material    string          `json:"material"`
	SizeBucket  string          `json:"sizeBucket"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	IsRentable  bool            `json:"isRentable"`
	RentPrice   decimal.Decimal `json:"rentPrice"`
}

// apply copies the request onto a. Artist name and slug are stamped by the store
// from ArtistID, never taken from the client.
func (r ArtworkRequest) apply(a *artworks.Artwork) error {
	status := artworks.StatusForSale
	if r.Status != "" {
		s, ok := artworks.ParseStatus(r.Status)
		if !ok {
			return fmt.Errorf("status: unknown value %q", r.Status)
		}
		status = s
	}

	artistID := r.ArtistID
	a.Title = r.Title
	a.Status = status
	a.Price = r.Price
	a.ArtistID = &artistID
	a.MainTheme = r.MainTheme
	a.Material = r.Material
	a.SizeBucket = r.SizeBucket
	a.Width = r.Width
	a.Height = r.Height
	a.ImageURL = r.ImageURL
	a.Description = r.Description
	a.IsRentable = r.IsRentable
	a.RentPrice = r.RentPrice
	return nil
}
