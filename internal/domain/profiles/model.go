package profiles

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type Profile struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_profiles_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	Name         string  `json:"name"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"authProvider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_profiles_google_sub" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// HasPassword is false for accounts created through Google sign-in.
func (p Profile) HasPassword() bool { return p.Password != nil && *p.Password != "" }

// NormalizeEmail lowercases and trims an address before lookup or insert.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayName is the name shown as an article writer.
func (p Profile) DisplayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	if i := strings.IndexByte(p.Email, '@'); i > 0 {
		return p.Email[:i]
	}
	return p.Email
}
