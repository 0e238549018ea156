package emailsvc

import (
	"context"
	"crypto/tls"
	"net/mail"
	"strings"
	"time"

	gomail "github.com/go-mail/mail"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
)

type smtpService struct {
	from   mail.Address
	domain string
	dialer *gomail.Dialer
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config) core.EmailService {
	ec := conf.Email
	d := gomail.NewDialer(ec.SMTPHost, ec.SMTPPort, ec.SMTPUser, ec.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: ec.SMTPHost}
	d.SSL = ec.SMTPPort == 465
	d.Timeout = conf.Newsletter.SendTimeout

	from := ec.From()
	domain := "localhost"
	if at := strings.LastIndex(from.Address, "@"); at >= 0 {
		domain = from.Address[at+1:]
	}
	return &smtpService{from: from, domain: domain, dialer: d}
}

func (svc smtpService) prepare(msg *core.EmailMessage, id string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(svc.from.Address, svc.from.Name))
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, m.FormatAddress(addr.Address, addr.Name))
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", "<"+id+"@"+svc.domain+">")
	m.SetDateHeader("Date", time.Now())

	// multipart/alternative when both are set
	switch {
	case msg.TextContent != "" && msg.HTMLContent != "":
		m.SetBody("text/plain", msg.TextContent)
		m.AddAlternative("text/html", msg.HTMLContent)
	case msg.HTMLContent != "":
		m.SetBody("text/html", msg.HTMLContent)
	default:
		m.SetBody("text/plain", msg.TextContent)
	}
	return m
}

// SendMessage opens a connection to the SMTP server and delivers `msg`.
// The returned id is the generated Message-ID.
func (svc smtpService) SendMessage(ctx context.Context, msg *core.EmailMessage) (string, error) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return "", errors.New("email has no recipient or no content")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := core.NewID()
	if err := svc.dialer.DialAndSend(svc.prepare(msg, id)); err != nil {
		return "", errors.Wrap(err, "smtp send")
	}
	return id, nil
}
