package exhibitions

import (
	"strings"
	"time"

	"fineart/internal/domain/artists"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Category string

const (
	CategorySolo         Category = "solo"
	CategoryGroup        Category = "group"
	CategoryDigital      Category = "digital"
	CategoryInstallation Category = "installation"
)

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategorySolo, CategoryGroup, CategoryDigital, CategoryInstallation:
		return c, true
	}
	return "", false
}

// Phase is derived from the date range relative to now.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseCurrent  Phase = "current"
	PhasePast     Phase = "past"
)

type Exhibition struct {
	ID    string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title string `gorm:"not null;index" json:"title"`

	ArtistID   *string         `gorm:"type:uuid;index" json:"artistId,omitempty"`
	Artist     *artists.Artist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	ArtistName string          `gorm:"index" json:"artistName"`
	ArtistSlug string          `json:"artistSlug"`

	Location    string    `json:"location,omitempty"`
	StartDate   time.Time `gorm:"type:date;index" json:"startDate"`
	EndDate     time.Time `gorm:"type:date;index" json:"endDate"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    Category  `gorm:"type:text;not null;default:'solo';index" json:"category"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Exhibition) StampArtist(artist artists.Artist) {
	id := artist.ID
	e.ArtistID = &id
	e.ArtistName = artist.Name
	e.ArtistSlug = artist.Slug
}

// PhaseAt compares calendar days; the end date is inclusive.
func (e Exhibition) PhaseAt(now time.Time) Phase {
	day := truncateDay(now)
	switch {
	case day.Before(truncateDay(e.StartDate)):
		return PhaseUpcoming
	case !e.EndDate.IsZero() && day.After(truncateDay(e.EndDate)):
		return PhasePast
	default:
		return PhaseCurrent
	}
}

func (e Exhibition) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&e.Category, validation.Required, validation.In(CategorySolo, CategoryGroup, CategoryDigital, CategoryInstallation)),
		validation.Field(&e.StartDate, validation.Required),
		validation.Field(&e.EndDate, validation.By(func(value interface{}) error {
			end, _ := value.(time.Time)
			if !end.IsZero() && end.Before(e.StartDate) {
				return validation.NewError("validation_end_before_start", "must not be before the start date")
			}
			return nil
		})),
	)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
