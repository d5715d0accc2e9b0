package access

type Capability string

const (
	CapRead          Capability = "read"
	CapWriteArticle  Capability = "write_article"
	CapUpload        Capability = "upload"
	CapCheckout      Capability = "checkout"
	CapPinArticle    Capability = "pin_article"
	CapPostNotice    Capability = "post_notice"
	CapManageCatalog Capability = "manage_catalog"
	CapManageBoards  Capability = "manage_boards"
	CapModerate      Capability = "moderate"
)
