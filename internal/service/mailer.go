package service

import (
	"context"
	"fmt"
	"net/smtp"
	"portfolio_backend/internal/config"
	"portfolio_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// Mailer 发送纯文本邮件
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	cfg config.MailConfig
}

// NewMailer 未配置SMTP主机时返回只记日志的实现
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	port := m.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, port)

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger.Log.Info("mail not configured, message logged only",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
