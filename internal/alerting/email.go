package alerting

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Sender delivers a formatted alert message.
type Sender interface {
	Send(subject, htmlBody string) error
}

// SMTPSender sends HTML mail over SMTP with STARTTLS.
type SMTPSender struct {
	Host      string
	Port      int
	From      string
	Password  string
	Recipient string
}

func NewSMTPSender(host string, port int, from, password, recipient string) *SMTPSender {
	return &SMTPSender{
		Host:      host,
		Port:      port,
		From:      from,
		Password:  password,
		Recipient: recipient,
	}
}

// Configured reports whether credentials are present. Unconfigured
// senders log and skip instead of failing the scan.
func (s *SMTPSender) Configured() bool {
	return s.From != "" && s.Password != "" && s.Recipient != ""
}

func (s *SMTPSender) Send(subject, htmlBody string) error {
	if !s.Configured() {
		log.Printf("⚠️ Email credentials not configured, skipping send")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", s.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	// smtp.SendMail upgrades to TLS via STARTTLS when the server
	// advertises it, which gmail does on 587.
	if err := smtp.SendMail(addr, auth, s.From, []string{s.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	log.Printf("📧 Email sent: %s", subject)
	return nil
}
