package media

import "time"

type Image struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OriginalPath string  `gorm:"not null" json:"originalPath"`
	URL          string  `gorm:"not null" json:"url"`
	MimeType     string  `gorm:"type:varchar(64)" json:"mimeType"`
	Size         int64   `json:"size"`
	UploadedBy   *string `gorm:"type:uuid;index" json:"uploadedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
