package users

import (
	"fineart/internal/domain/access"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
	"fineart/internal/session"
)

func BuildProfileDTO(p profiles.Profile) ProfileDTO {
	return ProfileDTO{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		DisplayName:  p.DisplayName(),
		Role:         p.Role,
		AuthProvider: p.AuthProvider,
		HasPassword:  p.HasPassword(),
		CreatedAt:    p.CreatedAt,
	}
}

// BuildAccessDTO uses the stored role, which may be newer than the token's.
func BuildAccessDTO(p profiles.Profile, claims *session.Claims) AccessDTO {
	dto := AccessDTO{Role: p.Role, Capabilities: access.CapabilitiesFor(p.Role)}
	if claims != nil && claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		dto.ExpiresAt = &t
	}
	return dto
}

func BuildOrderDTOs(list []orders.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, OrderDTO{
			ID:         o.ID,
			ArtworkID:  o.ArtworkID,
			Kind:       string(o.Kind),
			Amount:     o.Amount,
			Currency:   o.Currency,
			Status:     o.Status,
			ReceiptURL: o.ReceiptURL,
			CreatedAt:  o.CreatedAt,
		})
	}
	return out
}
