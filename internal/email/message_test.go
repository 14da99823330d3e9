package email

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetMessageEmbedsToken(t *testing.T) {
	exp := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := PasswordResetMessage("https://app.equilog.se/reset?lang=sv", "tok+en/1", exp)
	require.NoError(t, err)

	assert.Equal(t, "Reset your Equilog password", msg.Subject)
	link := "https://app.equilog.se/reset?lang=sv&token=" + url.QueryEscape("tok+en/1")
	assert.Contains(t, msg.PlainText, link)
	assert.Contains(t, msg.PlainText, "2026-05-01 10:00 UTC")
	assert.Contains(t, msg.HTML, "Choose a new password")
}

func TestPasswordResetMessageRejectsBadBaseURL(t *testing.T) {
	_, err := PasswordResetMessage("://nope", "t", time.Now())
	assert.Error(t, err)
}

func TestWelcomeMessageEscapesHTML(t *testing.T) {
	msg, err := WelcomeMessage(" <b>Ada</b> ")
	require.NoError(t, err)
	assert.Contains(t, msg.PlainText, "Hi <b>Ada</b>,")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ada&lt;/b&gt;")
}

func TestLogSenderNeverFails(t *testing.T) {
	assert.NoError(t, NewLogSender(nil).Send(context.Background(), "a@b.se", Message{Subject: "x"}))
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	_, err := NewSendGridSender(config.SendgridConfig{DefaultFrom: "no-reply@equilog.app"})
	assert.Error(t, err)
}
