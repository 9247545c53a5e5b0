package main

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers the password-recovery message. The server only ever
// talks to this interface; SMTP details stay here.
type Mailer interface {
	SendRecovery(to, resetURL string) error
}

type smtpMailer struct {
	addr string // host:port
	from string
}

func (m smtpMailer) SendRecovery(to, resetURL string) error {
	host := m.addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Reset password token\r\nContent-Type: text/html\r\n\r\n"+
		"<h3>Hi there,</h3><p>Click this link to reset your password: <strong>%s</strong></p>"+
		"<p>The link stops working after 24 hours.</p>", m.from, to, resetURL)
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}

// logMailer is the development fallback when SMTP_ADDR is unset: recovery
// links land in the process log instead of a mailbox.
type logMailer struct{}

func (logMailer) SendRecovery(to, resetURL string) error {
	log.Printf("recovery mail for %s: %s", to, resetURL)
	return nil
}

func newMailer(cfg Config) Mailer {
	if cfg.SMTPAddr == "" {
		return logMailer{}
	}
	return smtpMailer{addr: cfg.SMTPAddr, from: cfg.SMTPFrom}
}
