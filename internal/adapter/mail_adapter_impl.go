package adapter

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"

	"gopkg.in/gomail.v2"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type smtpMailDispatcher struct {
	config SMTPConfig
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewSMTPMailDispatcher sends mail through an SMTP server, implicit TLS on port 465 and
// STARTTLS when offered elsewhere. The whole conversation is bounded by the ctx given to Send.
func NewSMTPMailDispatcher(config SMTPConfig) MailDispatcher {
	return &smtpMailDispatcher{config: config, dial: (&net.Dialer{}).DialContext}
}

func (d *smtpMailDispatcher) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sender := d.config.Sender
	if sender == "" {
		sender = d.config.Username
	}
	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := d.deliver(ctx, m); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("failed to send mail: %w", ctx.Err())
		}
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (d *smtpMailDispatcher) deliver(ctx context.Context, m *gomail.Message) error {
	addr := net.JoinHostPort(d.config.Host, strconv.Itoa(d.config.Port))
	raw, err := d.dial(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer raw.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(deadline)
	}
	// a server that stops answering is cut off as soon as ctx ends
	stop := context.AfterFunc(ctx, func() { _ = raw.Close() })
	defer stop()

	conn := raw

	tlsConfig := &tls.Config{ServerName: d.config.Host}
	if d.config.Port == 465 {
		conn = tls.Client(conn, tlsConfig)
	}
	c, err := smtp.NewClient(conn, d.config.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && d.config.Port != 465 {
		if err := c.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if d.config.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", d.config.Username, d.config.Password, d.config.Host)); err != nil {
				return err
			}
		}
	}

	send := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := c.Rcpt(rcpt); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
	if err := gomail.Send(send, m); err != nil {
		return err
	}
	return c.Quit()
}

type logMailDispatcher struct {
	log *logger.Logger
}

// NewLogMailDispatcher is used when no SMTP server is configured. It records that a
// message would have been sent without printing the body, which may hold a reset link.
func NewLogMailDispatcher(log *logger.Logger) MailDispatcher {
	return &logMailDispatcher{log: log}
}

func (d *logMailDispatcher) Send(_ context.Context, to, subject, body string) error {
	d.log.Info("mail not sent, no SMTP server configured", "to", to, "subject", subject, "body_bytes", len(body))
	return nil
}
