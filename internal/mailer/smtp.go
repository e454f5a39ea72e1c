package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"

	htmltemplate "html/template"

	"gopkg.in/mail.v2"
)

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPMailer struct {
	dialer    dialer
	fromEmail string
	backoff   time.Duration
}

func NewSMTPMailer(host string, port int, username, password, fromEmail string) (*SMTPMailer, error) {
	if host == "" || fromEmail == "" {
		return nil, errors.New("smtp host and from address are required")
	}

	d := mail.NewDialer(host, port, username, password)
	d.Timeout = 5 * time.Second

	return &SMTPMailer{dialer: d, fromEmail: fromEmail, backoff: time.Second}, nil
}

// Send renders templateFile and delivers it, retrying with a linear backoff.
// It returns the number of attempts made.
func (m *SMTPMailer) Send(templateFile, username, email string, data any) (int, error) {
	msg, err := m.render(templateFile, username, email, data)
	if err != nil {
		return 0, err
	}

	var lastErr error
	for i := 0; i < maxRetires; i++ {
		if lastErr = m.dialer.DialAndSend(msg); lastErr == nil {
			return i + 1, nil
		}
		time.Sleep(m.backoff * time.Duration(i+1))
	}

	return maxRetires, fmt.Errorf("failed to send email after %d attempts: %w", maxRetires, lastErr)
}

func (m *SMTPMailer) render(templateFile, username, email string, data any) (*mail.Message, error) {
	subject := new(bytes.Buffer)
	plain := new(bytes.Buffer)

	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}
	if err := tmpl.ExecuteTemplate(plain, "plainBody", data); err != nil {
		return nil, err
	}

	html := new(bytes.Buffer)
	htmlTmpl, err := htmltemplate.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}
	if err := htmlTmpl.ExecuteTemplate(html, "htmlBody", data); err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plain.String())
	msg.AddAlternative("text/html", html.String())

	return msg, nil
}
