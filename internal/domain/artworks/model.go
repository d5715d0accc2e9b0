package artworks

import (
	"strings"
	"time"

	"fineart/internal/domain/artists"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusForSale  Status = "ForSale"
	StatusSold     Status = "Sold"
	StatusRentable Status = "Rentable"
)

// ParseStatus accepts the enum case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forsale", "for_sale", "for-sale":
		return StatusForSale, true
	case "sold":
		return StatusSold, true
	case "rentable":
		return StatusRentable, true
	}
	return "", false
}

type Artwork struct {
	ID     string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title  string          `gorm:"not null;index" json:"title"`
	Status Status          `gorm:"type:text;not null;default:'ForSale';index" json:"status"`
	Price  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`

	ArtistID *string         `gorm:"type:uuid;index" json:"artistId,omitempty"`
	Artist   *artists.Artist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Denormalised for display; stamped from Artist at submit time.
	ArtistName string `gorm:"index" json:"artistName"`
	ArtistSlug string `json:"artistSlug"`

	MainTheme  string `gorm:"index" json:"mainTheme,omitempty"`
	Material   string `gorm:"index" json:"material,omitempty"`
	SizeBucket string `gorm:"index" json:"sizeBucket,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`

	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	IsRentable bool            `gorm:"not null;default:false;index" json:"isRentable"`
	RentPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"rentPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StampArtist copies the artist back-reference onto the artwork.
func (a *Artwork) StampArtist(artist artists.Artist) {
	id := artist.ID
	a.ArtistID = &id
	a.ArtistName = artist.Name
	a.ArtistSlug = artist.Slug
}

func (a Artwork) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&a.Status, validation.Required, validation.In(StatusForSale, StatusSold, StatusRentable)),
		validation.Field(&a.Price, validation.By(nonNegative)),
		validation.Field(&a.RentPrice, validation.By(nonNegative)),
		validation.Field(&a.Width, validation.Min(0)),
		validation.Field(&a.Height, validation.Min(0)),
	)
}

// Purchasable reports whether the artwork can be bought outright.
func (a Artwork) Purchasable() bool {
	return a.Status == StatusForSale && a.Price.IsPositive()
}

// Rentable reports whether the artwork can be rented.
func (a Artwork) Rentable() bool {
	return a.Status != StatusSold && a.IsRentable && a.RentPrice.IsPositive()
}

func nonNegative(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return nil
	}
	if d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}
