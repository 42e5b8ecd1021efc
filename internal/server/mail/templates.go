package mail

import (
	"html/template"
	"time"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
  <h2 style="color: #007AFF;">Welcome to Eventz!</h2>
  <p>Hi {{.Username}},</p>
  <p>Please click the link below to verify your email address:</p>
  <p><a href="{{.URL}}">Verify Email Address</a></p>
  <p>Or copy this link to your browser:</p>
  <p><code>{{.URL}}</code></p>
  <p><strong>This link expires in 24 hours.</strong></p>
  <p style="color: #666; font-size: 12px;">If you didn't create this account, please ignore this email.</p>
  <p style="color: #666; font-size: 12px;">&copy; {{.Year}} Eventz</p>
</div>`))

var invitationTemplate = template.Must(template.New("invitation").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.UTC().Format("Mon, 02 Jan 2006 15:04 MST") },
}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #3A3A3A;">
  <h2 style="color: #007AFF;">You're Invited!</h2>
  <p>Hi {{.GuestName}},</p>
  <p>You have been invited to the following event:</p>
  <div style="background-color: #F0F0F0; padding: 20px; border-radius: 8px;">
    <h3>{{.EventTitle}}</h3>
    <p><strong>Description:</strong> {{.Description}}</p>
    <p><strong>Location:</strong> {{.Location}}</p>
    <p><strong>Start:</strong> {{when .StartDate}}</p>
    <p><strong>End:</strong> {{when .EndDate}}</p>
  </div>
  <p>We look forward to seeing you there!</p>
  <p style="color: #909090; font-size: 12px;">Eventz - Your Event Planning Assistant</p>
</div>`))

type verificationData struct {
	Username string
	URL      string
	Year     int
}
