package mail

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// ResetMessage is the rendered password-reset email.
type ResetMessage struct {
	Subject string
	Link    string
	Text    string
	HTML    string
}

// NewResetMessage builds the reset email for a signed reset token. The link
// points at the web app's new-password page with the token as a query
// parameter.
func NewResetMessage(appName, baseURL, token string) ResetMessage {
	link := strings.TrimRight(baseURL, "/") + "/auth/new-password?token=" + url.QueryEscape(token)

	text := fmt.Sprintf(
		"A password reset was requested for your %s account.\r\n\r\n"+
			"Open the link below to choose a new password. The link expires shortly; "+
			"if you did not request this, you can ignore this message.\r\n\r\n%s\r\n",
		appName, link)

	htmlBody := fmt.Sprintf(
		`<p>A password reset was requested for your %s account.</p>`+
			`<p><a href="%s">Choose a new password</a></p>`+
			`<p>The link expires shortly; if you did not request this, you can ignore this message.</p>`,
		html.EscapeString(appName), html.EscapeString(link))

	return ResetMessage{
		Subject: fmt.Sprintf("[%s] Password reset", appName),
		Link:    link,
		Text:    text,
		HTML:    htmlBody,
	}
}
