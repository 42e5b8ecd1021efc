package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig параметры SMTP сервера
type SMTPConfig struct {
	Host     string
	Username string
	Password string
	From     string
	Port     int
}

// SMTPSender отправляет письма через SMTP
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender создает отправителя. Соединение устанавливается на каждую отправку.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// SendVerification отправляет письмо со ссылкой подтверждения email
func (s *SMTPSender) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	msg, err := s.newMessage(to, "Verify Your Eventz Account")
	if err != nil {
		return err
	}

	data := verificationData{Username: username, URL: verifyURL, Year: time.Now().Year()}
	if err := msg.SetBodyHTMLTemplate(verificationTemplate, data); err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	return s.send(ctx, msg)
}

// SendGuestInvitation отправляет приглашение гостю
func (s *SMTPSender) SendGuestInvitation(ctx context.Context, to string, inv Invitation) error {
	msg, err := s.newMessage(to, "You're Invited: "+inv.EventTitle)
	if err != nil {
		return err
	}

	if err := msg.SetBodyHTMLTemplate(invitationTemplate, inv); err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	return s.send(ctx, msg)
}

func (s *SMTPSender) newMessage(to, subject string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, msg *gomail.Msg) error {
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
