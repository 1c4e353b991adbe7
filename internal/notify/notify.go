// Package notify emails finished-sweep reports over SMTP.
package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNoCredentials = errors.New("notify: smtp credentials not set")
	ErrNoRecipients  = errors.New("notify: no recipients")
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Mailer sends plain-text mail over SMTP, upgrading the connection with
// STARTTLS before authenticating.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// FromEnv builds a Mailer from ISINGLAB_SMTP_* environment variables.
// Host, port and sender fall back to defaults; username and password
// are required and never read from config files.
func FromEnv() (*Mailer, error) {
	user := os.Getenv("ISINGLAB_SMTP_USER")
	pass := os.Getenv("ISINGLAB_SMTP_PASSWORD")
	if user == "" || pass == "" {
		return nil, ErrNoCredentials
	}
	return &Mailer{
		Host:     getEnvOrDefault("ISINGLAB_SMTP_HOST", DefaultHost),
		Port:     getEnvIntOrDefault("ISINGLAB_SMTP_PORT", DefaultPort),
		Username: user,
		Password: pass,
		From:     getEnvOrDefault("ISINGLAB_SMTP_FROM", user),
	}, nil
}

// Message renders the full RFC 5322 message with CRLF line endings.
func (m *Mailer) Message(to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Send mails body to the recipients.
func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, to, m.Message(to, subject, body)); err != nil {
		return fmt.Errorf("notify: send failed: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
