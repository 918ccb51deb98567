package email

// PreviewData contains sample template data for local preview/testing,
// keyed by template name.
var PreviewData = map[Template]map[string]string{
	TemplateAdminInvite: {
		"AdminName":  "Ayşe",
		"AdminEmail": "ayse@playlearnkids.com",
		"InvitedBy":  "Admin User",
		"PanelURL":   "https://admin.playlearnkids.com",
	},
}
