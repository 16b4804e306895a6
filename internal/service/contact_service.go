package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/mailer"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/validation"
)

// Contact response texts.
const (
	ContactSentMessage     = "Message sent successfully! We'll get back to you soon."
	ContactFallbackMessage = "Message received! Due to email service limitations, we'll respond directly to your email address within 24 hours."
	ContactFailedMessage   = "Failed to send message. Please try again later."
)

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactResult is the outcome of a delivered or safely recorded submission.
type ContactResult struct {
	Message  string
	Degraded bool
}

type SubjectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ContactInfo struct {
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Location      string          `json:"location"`
	BusinessHours string          `json:"businessHours"`
	ResponseTime  string          `json:"responseTime"`
	Subjects      []SubjectOption `json:"subjects"`
}

var contactInfo = ContactInfo{
	Email:         mailer.ContactEmail,
	Phone:         mailer.ContactPhone,
	Location:      "Cameroon, Central Africa",
	BusinessHours: "Monday - Friday, 9:00 AM - 6:00 PM (GMT+1)",
	ResponseTime:  "We typically respond within 24 hours",
	Subjects: []SubjectOption{
		{Value: "general", Label: "General Question"},
		{Value: "recipe", Label: "Recipe Support"},
		{Value: "account", Label: "Account Issues"},
		{Value: "business", Label: "Business Inquiry"},
		{Value: "feedback", Label: "Feedback"},
		{Value: "other", Label: "Other"},
	},
}

type ContactService struct {
	sender    mailer.Sender
	from      string
	recipient string
	siteURL   string
	now       func() time.Time
}

// NewContactService wires the contact form. A nil sender means mail is not configured.
func NewContactService(sender mailer.Sender, cfg *config.Config) *ContactService {
	return &ContactService{
		sender:    sender,
		from:      cfg.EmailUser,
		recipient: cfg.ContactRecipient(),
		siteURL:   cfg.SiteURL,
		now:       time.Now,
	}
}

func (s *ContactService) Info() ContactInfo {
	return contactInfo
}

// Send delivers the admin notification and the visitor auto-reply in one relay session.
// Connection-level failures are logged and reported as a degraded success.
func (s *ContactService) Send(ctx context.Context, in ContactInput) (*ContactResult, error) {
	sub := mailer.Submission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	}
	if sub.Name == "" || sub.Email == "" || strings.TrimSpace(sub.Message) == "" {
		observability.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError("Name, email, and message are required fields")
	}
	if !validation.IsValidEmail(sub.Email) {
		observability.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError("Please provide a valid email address")
	}

	if s.sender == nil {
		observability.ContactSubmissions.WithLabelValues("failed").Inc()
		return nil, &models.AppError{
			Code:    models.CodeInternal,
			Message: mailer.ErrNotConfigured.Error(),
			Err:     mailer.ErrNotConfigured,
		}
	}

	receivedAt := s.now()
	msgs, err := mailer.BuildContactMessages(sub, s.from, s.recipient, s.siteURL, receivedAt)
	if err != nil {
		observability.ContactSubmissions.WithLabelValues("failed").Inc()
		return nil, contactFailure(err)
	}

	if err := s.sender.Send(ctx, msgs...); err != nil {
		if mailer.IsConnectionError(err) {
			observability.ContactSubmissions.WithLabelValues("fallback").Inc()
			middleware.Logger.WarnContext(ctx, "contact form submission recorded, email delivery failed",
				slog.String("name", sub.Name),
				slog.String("email", sub.Email),
				slog.String("subject", subjectOrDefault(sub.Subject)),
				slog.String("message", sub.Message),
				slog.Time("timestamp", receivedAt.UTC()),
				slog.String("error", err.Error()),
			)
			return &ContactResult{Message: ContactFallbackMessage, Degraded: true}, nil
		}
		observability.ContactSubmissions.WithLabelValues("failed").Inc()
		middleware.Logger.ErrorContext(ctx, "contact form email failed", slog.String("error", err.Error()))
		return nil, contactFailure(err)
	}

	observability.ContactSubmissions.WithLabelValues("sent").Inc()
	return &ContactResult{Message: ContactSentMessage}, nil
}

func contactFailure(err error) error {
	return &models.AppError{Code: models.CodeInternal, Message: ContactFailedMessage, Err: err}
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return "No subject"
	}
	return subject
}
