package users

import (
	"time"

	"github.com/shopspring/decimal"

	"fineart/internal/domain/access"
)

type MeResponse struct {
	Profile ProfileDTO `json:"profile"`
	Access  AccessDTO  `json:"access"`
	Orders  []OrderDTO `json:"orders"`
}

type ProfileDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"displayName"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"authProvider"`
	HasPassword  bool      `json:"hasPassword"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AccessDTO struct {
	Role         string              `json:"role"`
	Capabilities []access.Capability `json:"capabilities"`
	// ExpiresAt is when the presented token stops being valid.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type OrderDTO struct {
	ID         string          `json:"id"`
	ArtworkID  string          `json:"artworkId"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	ReceiptURL *string         `json:"receiptUrl,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
