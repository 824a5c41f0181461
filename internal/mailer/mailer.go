package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"exam_portal/internal/logger"
)

type MailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	fromName string
	log      zerolog.Logger
}

func NewMailService(host, port, user, password, from, fromName string) *MailService {
	return &MailService{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		fromName: fromName,
		log:      logger.Get(),
	}
}

const baseTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Heading}}</h2>
  <p>Dear {{.Name}},</p>
  <p>{{.Body}}</p>
  {{if .Detail}}<p style="background:#f4f4f4;padding:12px;border-radius:4px;">{{.Detail}}</p>{{end}}
  <p>Regards,<br>Exam Tracking System</p>
</body>
</html>`

var mailTemplate = template.Must(template.New("mail").Parse(baseTemplate))

type mailContent struct {
	Heading string
	Name    string
	Body    string
	Detail  string
}

func (s *MailService) Send(to, subject string, content mailContent) error {
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, content); err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.fromName, s.from)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	s.log.Info().Str("to", to).Str("subject", subject).Msg("sending mail")

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	s.log.Info().Str("to", to).Msg("mail sent")
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole exchange, not just the dial
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
