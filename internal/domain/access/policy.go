package access

import "fineart/internal/domain/articles"

// Actor is the authenticated caller as seen by the handlers.
type Actor struct {
	ProfileID string
	Role      string
}

// CanModifyArticle allows the author or a moderator.
func CanModifyArticle(a Actor, art articles.Article) bool {
	if Can(a.Role, CapModerate) {
		return true
	}
	return a.ProfileID != "" && art.OwnedBy(a.ProfileID)
}

// ArticleWrite checks the admin-only fields of an article write.
// It returns the capability that is missing, or "" when the write is allowed.
func ArticleWrite(a Actor, pinned bool, category string) Capability {
	if !Can(a.Role, CapWriteArticle) {
		return CapWriteArticle
	}
	if pinned && !Can(a.Role, CapPinArticle) {
		return CapPinArticle
	}
	if category == articles.CategoryNotice && !Can(a.Role, CapPostNotice) {
		return CapPostNotice
	}
	return ""
}
