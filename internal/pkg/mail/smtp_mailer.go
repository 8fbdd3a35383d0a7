package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/latpategaurav/blu/internal/pkg/env"
)

// SendMail delivers one HTML email through the configured SMTP relay. Auth is
// optional so a local dev relay works without credentials.
func SendMail(to, subject, body string) error {
	host := env.GetEnv("SMTP_HOST", "localhost")
	port := env.GetEnv("SMTP_PORT", "1025")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")

	sender := env.GetEnv("SMTP_SENDER", "")
	if sender == "" {
		sender = "no-reply@" + env.GetEnv("APP_DOMAIN", "spacecalledblu.local")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", sender)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := host + ":" + port
	if err := smtp.SendMail(addr, auth, sender, []string{to}, []byte(msg.String())); err != nil {
		log.Printf("smtp send to %s via %s failed: %v", to, addr, err)
		return err
	}
	return nil
}
