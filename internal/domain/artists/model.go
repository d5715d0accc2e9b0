package artists

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Artist struct {
	ID   string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug string `gorm:"not null;uniqueIndex" json:"slug"`
	Name string `gorm:"not null;index" json:"name"`

	Nationality string `json:"nationality,omitempty"`
	Discipline  string `json:"discipline,omitempty"`
	Bio         string `gorm:"type:text" json:"bio,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Artist) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.Slug, validation.Required, validation.Length(1, 120)),
	)
}
