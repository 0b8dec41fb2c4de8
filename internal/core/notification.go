package core

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"portal-backend-go/internal/mailer"
	"portal-backend-go/internal/models"
)

var priorityColors = map[string]string{
	models.PriorityLow:    "#28a745",
	models.PriorityMedium: "#ffc107",
	models.PriorityHigh:   "#fd7e14",
	models.PriorityUrgent: "#dc3545",
}

type ticketMailData struct {
	UserName    string
	UserEmail   string
	RequestName string
	Priority    string
	Color       string
	Description string
	SubmittedAt string
}

var ticketHTML = htmltemplate.Must(htmltemplate.New("ticket").Funcs(htmltemplate.FuncMap{
	"upper": strings.ToUpper,
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Service Request Submitted</h2>
  <h3>Request Details</h3>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px; font-weight: bold;">Request Name:</td><td style="padding: 8px;">{{.RequestName}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Priority:</td><td style="padding: 8px; color: {{.Color}}; font-weight: bold;">{{upper .Priority}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Submitted By:</td><td style="padding: 8px;">{{.UserName}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;"><a href="mailto:{{.UserEmail}}">{{.UserEmail}}</a></td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Submitted At:</td><td style="padding: 8px;">{{.SubmittedAt}}</td></tr>
  </table>
  {{- if .Description}}
  <h3>Description</h3>
  <p>{{range $i, $l := lines .Description}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
  {{- end}}
  <p>You can reply directly to this email to respond to {{.UserName}}.</p>
  <p style="color: #999; font-size: 12px;">This email was automatically generated by the ` + mailer.ProductName + `.</p>
</div>`))

var ticketText = texttemplate.Must(texttemplate.New("ticket").Funcs(texttemplate.FuncMap{
	"upper": strings.ToUpper,
}).Parse(`New Service Request Submitted

Request Name: {{.RequestName}}
Priority: {{upper .Priority}}
Submitted By: {{.UserName}}
Email: {{.UserEmail}}
Submitted At: {{.SubmittedAt}}
{{if .Description}}
Description:
{{.Description}}
{{end}}
You can reply directly to this email to respond to {{.UserName}}.
`))

// ticketNotification renders the email sent to the team when a ticket is
// filed. Replies go to the requester.
func ticketNotification(req *models.Request, fromEmail, to string, now time.Time) (mailer.Message, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	submitted := now
	if req.CreatedAt != nil {
		submitted = *req.CreatedAt
	}
	data := ticketMailData{
		UserName:    req.Name,
		UserEmail:   req.Email,
		RequestName: req.Request,
		Priority:    priority,
		Color:       priorityColors[priority],
		Description: req.Description,
		SubmittedAt: submitted.UTC().Format("Jan 2, 2006 15:04 MST"),
	}

	var html, text bytes.Buffer
	if err := ticketHTML.Execute(&html, data); err != nil {
		return mailer.Message{}, err
	}
	if err := ticketText.Execute(&text, data); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		From:    mailer.FormatFrom(req.Name, fromEmail),
		To:      []string{to},
		Subject: "New Service Request from " + req.Name + ": " + req.Request,
		HTML:    html.String(),
		Text:    text.String(),
		ReplyTo: req.Email,
	}, nil
}
