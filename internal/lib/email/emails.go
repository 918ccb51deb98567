package email

// SendAdminInvite tells a newly added admin they can sign in.
func (c *Client) SendAdminInvite(to, adminName, invitedBy, panelURL string) error {
	data := map[string]string{
		"AdminName":  adminName,
		"AdminEmail": to,
		"InvitedBy":  invitedBy,
		"PanelURL":   panelURL,
	}

	return c.SendEmail(
		to,
		"PlayLearnKids yönetici daveti",
		TemplateAdminInvite,
		data,
	)
}
