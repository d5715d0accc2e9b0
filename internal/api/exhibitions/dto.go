package exhibitions

import (
	"errors"
	"fmt"
	"time"

	"fineart/internal/domain/exhibitions"
)

// ExhibitionRequest takes dates as YYYY-MM-DD.
type ExhibitionRequest struct {
	Title       string `json:"title" binding:"required"`
	ArtistID    string `json:"artistId" binding:"required"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

const dateLayout = "2006-01-02"

func (r ExhibitionRequest) apply(e *exhibitions.Exhibition) error {
	category := exhibitions.CategorySolo
	if r.Category != "" {
		c, ok := exhibitions.ParseCategory(r.Category)
		if !ok {
			return fmt.Errorf("category: unknown value %q", r.Category)
		}
		category = c
	}

	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return errors.New("startDate: expected YYYY-MM-DD")
	}
	var end time.Time
	if r.EndDate != "" {
		if end, err = time.Parse(dateLayout, r.EndDate); err != nil {
			return errors.New("endDate: expected YYYY-MM-DD")
		}
	}

	artistID := r.ArtistID
	e.Title = r.Title
	e.ArtistID = &artistID
	e.Location = r.Location
	e.StartDate = start
	e.EndDate = end
	e.Description = r.Description
	e.ImageURL = r.ImageURL
	e.Category = category
	return nil
}
