package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPurchase Kind = "purchase"
	KindRent     Kind = "rent"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPurchase, KindRent:
		return Kind(s), true
	case "":
		return KindPurchase, true
	}
	return "", false
}

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
	StatusExpired = "expired"
)

type Order struct {
	ID              string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ArtworkID       string          `gorm:"type:uuid;not null;index" json:"artworkId"`
	ProfileID       string          `gorm:"type:uuid;not null;index" json:"profileId"`
	Kind            Kind            `gorm:"type:varchar(16);not null" json:"kind"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(8);not null" json:"currency"`
	StripeSessionID string          `gorm:"uniqueIndex" json:"stripeSessionId"`
	Status          string          `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	ReceiptURL      *string         `json:"receiptUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o Order) Paid() bool { return o.Status == StatusPaid }
