package service

import (
	"context"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

// Mailer dispatches a formatted message to an address and reports the
// outcome as a response envelope.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) domain.Response
}

// MailService delivers mail over SMTP. Without a configured host it degrades
// to a log-only transport so local environments work without a relay.
type MailService struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewMailService builds the service.
func NewMailService(cfg config.MailConfig, logger *zap.Logger) *MailService {
	return &MailService{cfg: cfg, logger: logger}
}

// Send composes and dispatches a plain-text message.
func (s *MailService) Send(ctx context.Context, to, subject, body string) domain.Response {
	if s.cfg.Host == "" {
		s.logger.Info("mail transport disabled; logging message",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body))
		return domain.OK("mail logged (transport disabled)", nil)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return domain.Fail("invalid sender address: "+err.Error(), nil)
	}
	if err := msg.To(to); err != nil {
		return domain.Fail("invalid recipient address: "+err.Error(), nil)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		s.logger.Error("smtp client init failed", zap.Error(err))
		return domain.Fail("mail not sent: "+err.Error(), nil)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("mail dispatch failed", zap.String("to", to), zap.Error(err))
		return domain.Fail("mail not sent: "+err.Error(), nil)
	}

	s.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return domain.OK("mail sent", nil)
}
