package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailService sends outbound mail via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	siteName string
}

// NewEmailService creates an email service from SMTP_* environment
// variables.
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "localhost"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "web@ukotvy.cz"),
		siteName: getEnvOrDefault("SITE_NAME", "U Kotvy"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendReservation forwards a validated reservation form as a plain-text
// message to the restaurant's reservation address.
func (e *EmailService) SendReservation(to string, r ReservationRequest) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured; dropping reservation from %s", r.Email)
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("Rezervace z webu — %s", r.Name)
	body := fmt.Sprintf(
		"Nová rezervace z webu %s\r\n\r\nJméno: %s\r\nTelefon: %s\r\nE-mail: %s\r\n\r\nPoznámka:\r\n%s\r\n",
		e.siteName, r.Name, r.Phone, r.Email, r.Note,
	)
	return e.sendEmail(to, r.Email, subject, body)
}

// sendEmail sends a plain-text email over SMTP with STARTTLS.
func (e *EmailService) sendEmail(to, replyTo, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", e.siteName, e.from)
	if replyTo != "" {
		headers["Reply-To"] = replyTo
	}
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/plain; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	tlsConfig := &tls.Config{ServerName: e.host}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Reservation email sent to: %s", to)
	return nil
}
