package service

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"

	"healthtracker/internal/mail"
)

const inviteCodeBytes = 4

// newInviteCode returns 8 lowercase hex characters.
func newInviteCode() (string, error) {
	b := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var inviteHTML = template.Must(template.New("invite").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4a90e2;">You've been invited to join a fitness group!</h2>
  <p>{{.Inviter}} has invited you to join the group <strong>{{.Group}}</strong> on Health Tracker.</p>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  <p>
    <a href="{{.URL}}" style="background-color: #4a90e2; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Join Group</a>
  </p>
  <p>Or use invite code: <strong>{{.Code}}</strong></p>
</div>`))

type inviteData struct {
	Inviter     string
	Group       string
	Description string
	URL         string
	Code        string
}

func buildInviteMessage(to string, d inviteData) (mail.Message, error) {
	var html bytes.Buffer
	if err := inviteHTML.Execute(&html, d); err != nil {
		return mail.Message{}, fmt.Errorf("render invite: %w", err)
	}
	text := fmt.Sprintf("%s has invited you to join the group %q on Health Tracker.\n\nJoin here: %s\nOr use invite code: %s\n",
		d.Inviter, d.Group, d.URL, d.Code)

	return mail.Message{
		To:      to,
		Subject: fmt.Sprintf("%s invited you to join %s on Health Tracker", d.Inviter, d.Group),
		Text:    text,
		HTML:    html.String(),
	}, nil
}
