package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// SMTPConfig holds the relay and addressing settings for SMTPNotifier.
// UseTLS dials with implicit TLS; otherwise STARTTLS is used when the relay offers it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
	To       string
	Timeout  time.Duration
}

// SMTPNotifier sends plain-text email through an SMTP relay.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPNotifier creates an SMTPNotifier. Port defaults to 587 and Timeout to 10s.
func NewSMTPNotifier(cfg SMTPConfig, l *slog.Logger) *SMTPNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPNotifier{cfg: cfg, logger: l}
}

// Notify implements Notifier.
func (n *SMTPNotifier) Notify(ctx context.Context, task domain.Task) error {
	if strings.TrimSpace(n.cfg.Host) == "" {
		return fmt.Errorf("smtp: host is required")
	}
	fromAddr, err := mail.ParseAddress(n.cfg.From)
	if err != nil {
		return fmt.Errorf("smtp: invalid from address: %w", err)
	}
	toAddr, err := mail.ParseAddress(n.cfg.To)
	if err != nil {
		return fmt.Errorf("smtp: invalid to address: %w", err)
	}

	msg := BuildMessage(toAddr.Address, task)
	data := formatMessage(fromAddr.String(), toAddr.String(), msg)

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprintf("%d", n.cfg.Port))
	tlsCfg := &tls.Config{ServerName: n.cfg.Host}

	client, conn, err := n.dial(ctx, addr, tlsCfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Quit()
		_ = conn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if !n.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("smtp: starttls failed: %w", err)
			}
		}
	}

	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth failed: %w", err)
		}
	}

	if err := client.Mail(fromAddr.Address); err != nil {
		return fmt.Errorf("smtp: mail from failed: %w", err)
	}
	if err := client.Rcpt(toAddr.Address); err != nil {
		return fmt.Errorf("smtp: rcpt to failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: open data: %w", err)
	}
	if _, err := w.Write([]byte(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close data: %w", err)
	}

	logger.FromContextOrDefault(ctx, n.logger).InfoContext(ctx, "task notification sent",
		slog.String("provider", "smtp"),
		slog.String("task_id", task.ID.String()))
	return nil
}

func (n *SMTPNotifier) dial(ctx context.Context, addr string, tlsCfg *tls.Config) (*smtp.Client, net.Conn, error) {
	dialer := &net.Dialer{Timeout: n.cfg.Timeout}

	var (
		conn net.Conn
		err  error
	)
	if n.cfg.UseTLS {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: tlsCfg}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("smtp: dial failed: %w", err)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("smtp: new client failed: %w", err)
	}
	return client, conn, nil
}

// formatMessage renders headers and body with CRLF line endings.
func formatMessage(from, to string, msg Message) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + msg.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return sb.String()
}
