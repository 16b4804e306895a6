package service

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactConfig() *config.Config {
	return &config.Config{
		EmailUser:     "site@example.com",
		EmailPassword: "secret",
		AdminEmail:    "owner@example.com",
		SiteURL:       "https://jsrecipebox.com",
	}
}

func validContact() ContactInput {
	return ContactInput{Name: "Ama", Email: "ama@example.com", Subject: "Hello", Message: "Love the recipes"}
}

func TestContactService_Validation(t *testing.T) {
	t.Parallel()
	svc := NewContactService(&senderStub{}, contactConfig())

	tests := []struct {
		name    string
		mutate  func(*ContactInput)
		message string
	}{
		{"missing name", func(in *ContactInput) { in.Name = "" }, "Name, email, and message are required fields"},
		{"missing email", func(in *ContactInput) { in.Email = " " }, "Name, email, and message are required fields"},
		{"missing message", func(in *ContactInput) { in.Message = "" }, "Name, email, and message are required fields"},
		{"bad email", func(in *ContactInput) { in.Email = "not-an-email" }, "Please provide a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validContact()
			tt.mutate(&in)
			_, err := svc.Send(context.Background(), in)
			assertValidationError(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestContactService_SendsBothMessages(t *testing.T) {
	t.Parallel()
	sender := &senderStub{}
	svc := NewContactService(sender, contactConfig())
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	res, err := svc.Send(context.Background(), validContact())
	require.NoError(t, err)
	assert.Equal(t, ContactSentMessage, res.Message)
	assert.False(t, res.Degraded)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "owner@example.com", sender.sent[0].To)
	assert.Equal(t, "Contact Form: Hello - from Ama", sender.sent[0].Subject)
	assert.Equal(t, "ama@example.com", sender.sent[1].To)
	assert.Equal(t, "site@example.com", sender.sent[1].From)
}

func TestContactService_RecipientFallsBackToEmailUser(t *testing.T) {
	t.Parallel()
	cfg := contactConfig()
	cfg.AdminEmail = ""
	sender := &senderStub{}
	svc := NewContactService(sender, cfg)

	_, err := svc.Send(context.Background(), validContact())
	require.NoError(t, err)
	assert.Equal(t, "site@example.com", sender.sent[0].To)
}

func TestContactService_ConnectionFailureDegrades(t *testing.T) {
	t.Parallel()
	sender := &senderStub{err: fmt.Errorf("smtp send: %w", context.DeadlineExceeded)}
	svc := NewContactService(sender, contactConfig())

	res, err := svc.Send(context.Background(), validContact())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, ContactFallbackMessage, res.Message)
	assert.Len(t, sender.sent, 2, "both messages were attempted")

	sender.err = fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
	res, err = svc.Send(context.Background(), validContact())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestContactService_OtherFailureIs500(t *testing.T) {
	t.Parallel()
	svc := NewContactService(&senderStub{err: errors.New("535 authentication failed")}, contactConfig())

	_, err := svc.Send(context.Background(), validContact())
	assert.Equal(t, 500, models.StatusFor(err))
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ContactFailedMessage, appErr.Message)
}

func TestContactService_NotConfigured(t *testing.T) {
	t.Parallel()
	svc := NewContactService(nil, &config.Config{})

	_, err := svc.Send(context.Background(), validContact())
	assert.Equal(t, 500, models.StatusFor(err))
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "Email credentials not configured")
}

func TestContactService_Info(t *testing.T) {
	t.Parallel()
	info := NewContactService(nil, &config.Config{}).Info()
	assert.Equal(t, "+237 673 746 133", info.Phone)
	require.Len(t, info.Subjects, 6)
	assert.Equal(t, SubjectOption{Value: "general", Label: "General Question"}, info.Subjects[0])
}
