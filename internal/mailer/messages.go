// Package mailer renders and delivers the contact form emails.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PreviewLength is how much of the message the auto-reply quotes back.
const PreviewLength = 100

// Public contact details quoted in replies and served by the info endpoint.
const (
	ContactEmail = "fongejustice918@gmail.com"
	ContactPhone = "+237 673 746 133"
)

// Message is one outgoing HTML email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Submission is a contact form entry.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type templateData struct {
	Submission
	Preview      string
	ReceivedAt   string
	SiteURL      string
	ContactEmail string
	ContactPhone string
}

// AdminSubject is the subject line of the notification sent to the site owner.
func AdminSubject(s Submission) string {
	subject := s.Subject
	if subject == "" {
		subject = "New Message"
	}
	return fmt.Sprintf("Contact Form: %s - from %s", subject, s.Name)
}

// AutoReplySubject is the subject line of the acknowledgement sent to the visitor.
const AutoReplySubject = "Thank you for contacting J's Recipe Box!"

// Preview truncates msg to PreviewLength runes, marking the cut with "...".
func Preview(msg string) string {
	if utf8.RuneCountInString(msg) <= PreviewLength {
		return msg
	}
	return string([]rune(msg)[:PreviewLength]) + "..."
}

// BuildContactMessages renders the admin notification and the visitor auto-reply.
func BuildContactMessages(s Submission, from, adminTo, siteURL string, receivedAt time.Time) ([]Message, error) {
	data := templateData{
		Submission:   s,
		Preview:      Preview(s.Message),
		ReceivedAt:   receivedAt.Format(time.RFC1123),
		SiteURL:      siteURL,
		ContactEmail: ContactEmail,
		ContactPhone: ContactPhone,
	}

	adminHTML, err := render("admin_notification.html", data)
	if err != nil {
		return nil, err
	}
	replyHTML, err := render("auto_reply.html", data)
	if err != nil {
		return nil, err
	}

	return []Message{
		{From: from, To: adminTo, ReplyTo: s.Email, Subject: AdminSubject(s), HTML: adminHTML},
		{From: from, To: s.Email, Subject: AutoReplySubject, HTML: replyHTML},
	}, nil
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
