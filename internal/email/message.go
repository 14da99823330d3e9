package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

// Message is a rendered email ready for delivery.
type Message struct {
	Subject   string
	PlainText string
	HTML      string
}

const resetPlain = `Hi,

We received a request to reset the password for your Equilog account.
Open the link below to choose a new password. The link is valid until {{.Expires}}.

{{.Link}}

If you did not request a password reset you can ignore this email.
`

const resetHTML = `<p>Hi,</p>
<p>We received a request to reset the password for your Equilog account.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>The link is valid until {{.Expires}}.</p>
<p>If you did not request a password reset you can ignore this email.</p>
`

const welcomePlain = `Hi {{.FirstName}},

Welcome to Equilog. You can now create a stable or ask to join one from the app.
`

const welcomeHTML = `<p>Hi {{.FirstName}},</p>
<p>Welcome to Equilog. You can now create a stable or ask to join one from the app.</p>
`

var (
	resetPlainTmpl   = texttemplate.Must(texttemplate.New("reset.txt").Parse(resetPlain))
	resetHTMLTmpl    = htmltemplate.Must(htmltemplate.New("reset.html").Parse(resetHTML))
	welcomePlainTmpl = texttemplate.Must(texttemplate.New("welcome.txt").Parse(welcomePlain))
	welcomeHTMLTmpl  = htmltemplate.Must(htmltemplate.New("welcome.html").Parse(welcomeHTML))
)

// PasswordResetMessage renders the reset email for token.
func PasswordResetMessage(baseURL, token string, expires time.Time) (Message, error) {
	link, err := resetLink(baseURL, token)
	if err != nil {
		return Message{}, err
	}
	data := struct {
		Link    string
		Expires string
	}{Link: link, Expires: expires.UTC().Format("2006-01-02 15:04 MST")}

	var plain, html bytes.Buffer
	if err := resetPlainTmpl.Execute(&plain, data); err != nil {
		return Message{}, fmt.Errorf("render reset text: %w", err)
	}
	if err := resetHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render reset html: %w", err)
	}
	return Message{Subject: "Reset your Equilog password", PlainText: plain.String(), HTML: html.String()}, nil
}

// WelcomeMessage renders the greeting sent after registration.
func WelcomeMessage(firstName string) (Message, error) {
	data := struct{ FirstName string }{FirstName: strings.TrimSpace(firstName)}
	var plain, html bytes.Buffer
	if err := welcomePlainTmpl.Execute(&plain, data); err != nil {
		return Message{}, fmt.Errorf("render welcome text: %w", err)
	}
	if err := welcomeHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render welcome html: %w", err)
	}
	return Message{Subject: "Welcome to Equilog", PlainText: plain.String(), HTML: html.String()}, nil
}

func resetLink(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse reset base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
