// Package notify delivers the auction-won message to the winning bidder.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipient is returned when the winner has no email address.
var ErrNoRecipient = errors.New("no recipient defined")

// WinnerNotice describes a won auction.
type WinnerNotice struct {
	Email        string
	Name         string
	ProductTitle string
	Price        float64
}

// Notifier sends winner notifications.
type Notifier interface {
	NotifyWinner(ctx context.Context, n WinnerNotice) error
}

const subject = "Congratulations! You won the auction"

var body = template.Must(template.New("winner").Parse(
	`<h1>Hello {{.Name}},</h1>
<p>You have successfully won the auction for <strong>{{.ProductTitle}}</strong>.</p>
<p>Final price: <strong>Rs.{{printf "%.2f" .Price}}</strong></p>
<p>Thank you for bidding with us!</p>`))

// Render builds the HTML body of the winner email.
func Render(n WinnerNotice) (string, error) {
	var buf bytes.Buffer
	if err := body.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render winner email: %w", err)
	}
	return buf.String(), nil
}

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML mail through an SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send sendFunc
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) NotifyWinner(ctx context.Context, n WinnerNotice) error {
	if strings.TrimSpace(n.Email) == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := Render(n)
	if err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", n.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(html)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.FromEmail, []string{n.Email}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send winner email: %w", err)
	}
	return nil
}

// LogNotifier records notifications in the log instead of sending them. Used
// when no SMTP relay is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyWinner(_ context.Context, n WinnerNotice) error {
	if strings.TrimSpace(n.Email) == "" {
		return ErrNoRecipient
	}
	logrus.WithFields(logrus.Fields{
		"email":   n.Email,
		"product": n.ProductTitle,
		"price":   n.Price,
	}).Info("Winner notification (SMTP disabled)")
	return nil
}
