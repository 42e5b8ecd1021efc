package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LogSender не отправляет письма, а пишет их в лог.
// Используется, когда SMTP не настроен (локальная разработка).
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender создает LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendVerification пишет ссылку подтверждения в лог на уровне debug
func (s *LogSender) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	var body bytes.Buffer
	data := verificationData{Username: username, URL: verifyURL, Year: time.Now().Year()}
	if err := verificationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	s.logger.InfoContext(ctx, "smtp not configured, verification email not sent",
		slog.String("to", to))
	s.logger.DebugContext(ctx, "verification link", slog.String("url", verifyURL))
	return nil
}

// SendGuestInvitation пишет факт приглашения в лог
func (s *LogSender) SendGuestInvitation(ctx context.Context, to string, inv Invitation) error {
	var body bytes.Buffer
	if err := invitationTemplate.Execute(&body, inv); err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	s.logger.InfoContext(ctx, "smtp not configured, invitation email not sent",
		slog.String("to", to),
		slog.String("event", inv.EventTitle))
	return nil
}
