// Package notifications sends outbound email for the delivery pipeline.
package notifications

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
	From     string `yaml:"from" json:"from"`
	TLS      bool   `yaml:"tls" json:"tls"`
}

// Validate checks if the SMTP configuration is valid.
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.From == "" {
		return fmt.Errorf("smtp from address is required")
	}
	return nil
}

// EmailService sends templated email over SMTP.
type EmailService struct {
	config    SMTPConfig
	templates *template.Template
	logger    zerolog.Logger
}

// NewEmailService creates a new email service.
func NewEmailService(config SMTPConfig, logger zerolog.Logger) (*EmailService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	return &EmailService{
		config:    config,
		templates: tmpl,
		logger:    logger.With().Str("component", "email_service").Logger(),
	}, nil
}

// LeadMagnetData holds data for the lead-magnet delivery email template.
type LeadMagnetData struct {
	DownloadURL string
	AssetName   string
	Campaign    string
	ExpiresAt   time.Time
}

// SendLeadMagnet sends the delivery email containing the download link.
func (s *EmailService) SendLeadMagnet(to string, data LeadMagnetData) error {
	subject := fmt.Sprintf("Your download: %s", data.AssetName)
	return s.sendTemplate([]string{to}, subject, "lead_magnet.html", data)
}

// sendTemplate renders a template and sends the email.
func (s *EmailService) sendTemplate(to []string, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("execute template %s: %w", templateName, err)
	}

	return s.send(to, subject, body.String())
}

// send sends an email with the given subject and HTML body.
func (s *EmailService) send(to []string, subject, htmlBody string) error {
	s.logger.Debug().
		Strs("to", to).
		Str("subject", subject).
		Msg("sending email")

	msg := s.buildMessage(to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.TLS {
		err = s.sendTLS(addr, to, msg)
	} else {
		err = s.sendPlain(addr, to, msg)
	}

	if err != nil {
		metrics.EmailDispatchTotal.WithLabelValues("error").Inc()
		s.logger.Error().
			Err(err).
			Strs("to", to).
			Str("subject", subject).
			Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	metrics.EmailDispatchTotal.WithLabelValues("sent").Inc()
	s.logger.Info().
		Strs("to", to).
		Str("subject", subject).
		Msg("email sent successfully")

	return nil
}

// buildMessage constructs the email message with headers.
func (s *EmailService) buildMessage(to []string, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", s.config.From))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to[0]))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}

// sendPlain sends email without TLS (for port 25 or trusted networks).
func (s *EmailService) sendPlain(addr string, to []string, msg []byte) error {
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	return smtp.SendMail(addr, auth, s.config.From, to, msg)
}

// sendTLS sends email with TLS (for port 465 or STARTTLS on port 587).
func (s *EmailService) sendTLS(addr string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err = client.Mail(s.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("smtp rcpt to %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("close message writer: %w", err)
	}

	return client.Quit()
}
