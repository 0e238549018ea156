package emailsvc

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/madrasa/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key    string
	from   *sgmail.Email
	client *rest.Client
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config) core.EmailService {
	from := conf.Email.From()
	return &sendgridService{
		key:    conf.Email.SendgridAPIKey,
		from:   sgmail.NewEmail(from.Name, from.Address),
		client: &rest.Client{HTTPClient: &http.Client{Timeout: conf.Newsletter.SendTimeout}},
	}
}

func (svc sendgridService) prepare(msg *core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(svc.getSGEmail(to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func (svc sendgridService) getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

// SendMessage posts `msg` to the sendgrid API and returns the "X-Message-Id" it assigned.
func (svc sendgridService) SendMessage(ctx context.Context, msg *core.EmailMessage) (string, error) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return "", errors.New("email has no recipient or no content")
	}

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := svc.client.SendWithContext(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "calling sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", errors.Errorf("sendgrid - status: %d - body: %s", res.StatusCode, res.Body)
	}
	if ids := res.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return core.NewID(), nil
}
