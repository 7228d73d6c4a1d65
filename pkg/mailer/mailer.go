// Package mailer sends plain text notification mails over SMTP.
package mailer

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Config SMTP 配置
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Message 一封待发送的邮件
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// dialer is the part of gomail.Dialer used by SMTPSender.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender 通过 SMTP 发送邮件
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg Config) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Build 构造 gomail 消息
func Build(from string, msg Message) (*gomail.Message, error) {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, errors.New("mailer: no recipients")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m, nil
}

// Send 发送邮件；ctx 已取消时不再连接 SMTP 服务器
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := Build(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "mailer: send %q", msg.Subject)
	}
	return nil
}

// NopSender 未启用邮件时使用，丢弃所有邮件
type NopSender struct{}

func (NopSender) Send(ctx context.Context, msg Message) error { return nil }
