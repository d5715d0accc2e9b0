package access

import "fineart/internal/domain/profiles"

var (
	anonymousCaps = []Capability{CapRead}
	userCaps      = []Capability{CapRead, CapWriteArticle, CapUpload, CapCheckout}
	adminCaps     = []Capability{
		CapRead, CapWriteArticle, CapUpload, CapCheckout,
		CapPinArticle, CapPostNotice, CapManageCatalog, CapManageBoards, CapModerate,
	}
)

// CapabilitiesFor lists what a role may do. An empty role is an anonymous visitor.
func CapabilitiesFor(role string) []Capability {
	switch role {
	case profiles.RoleAdmin:
		return append([]Capability(nil), adminCaps...)
	case profiles.RoleUser:
		return append([]Capability(nil), userCaps...)
	default:
		return append([]Capability(nil), anonymousCaps...)
	}
}

func Can(role string, c Capability) bool {
	for _, have := range CapabilitiesFor(role) {
		if have == c {
			return true
		}
	}
	return false
}
