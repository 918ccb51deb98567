package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateAdminInvite corresponds to templates/admin_invite.html
	TemplateAdminInvite Template = "admin_invite"
)
