package newsletter

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/madrasa/core"
)

const (
	templateName = "newsletter"

	defaultConcurrency = 10
	defaultSendTimeout = 15 * time.Second

	// the subscribers query may take this many send timeouts
	queryTimeoutFactor = 2
)

type badge struct {
	label, color, cta string
}

var badges = map[string]badge{
	TypeNews:     {label: "News & Events", color: "#1d4ed8", cta: "Read more"},
	TypeAcademic: {label: "Academic Update", color: "#b45309", cta: "View details"},
}

type templateData struct {
	Badge      string
	BadgeColor string
	Title      string
	Lines      []string
	Link       string
	LinkLabel  string
}

type (
	Metrics interface {
		ObserveDispatch(mode, status string)
		ObserveEmail(ok bool)
	}

	DispatcherDeps struct {
		Repo     Repository
		Mailer   core.EmailService // nil means preview only
		Conf     *core.Config
		Validate *validator.Validate
		Logger   core.Logger
		Metrics  Metrics // optional
	}

	// Dispatcher sends a notification to every active Subscriber, one email per Subscriber.
	Dispatcher struct {
		repo        Repository
		mailer      core.EmailService
		conf        *core.Config
		validate    *validator.Validate
		logger      core.Logger
		metrics     Metrics
		preview     bool
		concurrency int
		sendTimeout time.Duration
	}
)

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	d := &Dispatcher{
		repo:        deps.Repo,
		mailer:      deps.Mailer,
		conf:        deps.Conf,
		validate:    deps.Validate,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		preview:     deps.Mailer == nil || !deps.Conf.Email.Configured(),
		concurrency: deps.Conf.Newsletter.Concurrency,
		sendTimeout: deps.Conf.Newsletter.SendTimeout,
	}
	if d.metrics == nil {
		d.metrics = nopMetrics{}
	}
	if d.concurrency <= 0 {
		d.concurrency = defaultConcurrency
	}
	if d.sendTimeout <= 0 {
		d.sendTimeout = defaultSendTimeout
	}
	return d
}

// PreviewOnly reports whether emails are only previewed because the email provider is not configured.
func (d *Dispatcher) PreviewOnly() bool { return d.preview }

// Dispatch sends `req` to every active Subscriber and waits for all deliveries.
// Delivery failures are reported in the Result, never as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, req NotificationRequest) (Result, error) {
	return d.dispatch(ctx, req, ModeManual)
}

func (d *Dispatcher) dispatch(ctx context.Context, req NotificationRequest, mode string) (Result, error) {
	if err := req.Validate(d.validate); err != nil {
		return Result{}, err
	}

	subs, err := d.activeSubscribers(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "querying active subscribers")
	}
	if len(subs) == 0 {
		d.metrics.ObserveDispatch(mode, DispatchNoSubscribers)
		return Result{
			Success: true,
			Status:  DispatchNoSubscribers,
			Message: "no active subscribers",
		}, nil
	}

	msg := d.buildMessage(req)

	if d.preview {
		d.metrics.ObserveDispatch(mode, DispatchPreview)
		recipients := make([]string, 0, len(subs))
		for _, sub := range subs {
			recipients = append(recipients, sub.Email)
		}
		return Result{
			Success:          true,
			Status:           DispatchPreview,
			SubscribersCount: len(subs),
			Subject:          msg.Subject,
			Recipients:       recipients,
			Message:          "email provider not configured: nothing was sent",
		}, nil
	}

	if err = msg.Render(d.conf); err != nil {
		return Result{}, errors.Wrap(err, "rendering newsletter")
	}

	results := make([]RecipientResult, len(subs))
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			results[i] = d.send(ctx, msg, sub)
			return nil // one failed delivery must not cancel the others
		})
	}
	_ = g.Wait()

	res := Result{
		Status:           DispatchSent,
		SubscribersCount: len(subs),
		Subject:          msg.Subject,
		Results:          results,
	}
	for _, rr := range results {
		if rr.OK() {
			res.Successful++
		} else {
			res.Failed++
		}
	}
	res.Success = res.Successful > 0
	d.metrics.ObserveDispatch(mode, DispatchSent)
	return res, nil
}

func (d *Dispatcher) activeSubscribers(ctx context.Context) ([]Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeoutFactor*d.sendTimeout)
	defer cancel()
	return d.repo.QuerySubscribers(ctx, QueryFilter{Status: StatusActive})
}

type sendOutcome struct {
	id  string
	err error
}

// send delivers `msg` to `sub` alone, giving up after the send timeout.
func (d *Dispatcher) send(ctx context.Context, msg *core.EmailMessage, sub Subscriber) RecipientResult {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	done := make(chan sendOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- sendOutcome{err: errors.Errorf("panic: %v", r)}
			}
		}()
		id, err := d.mailer.SendMessage(ctx, msg.Clone(mail.Address{Address: sub.Email}))
		done <- sendOutcome{id: id, err: err}
	}()

	var out sendOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	d.metrics.ObserveEmail(out.err == nil)
	if out.err != nil {
		d.logger.Warn("newsletter delivery failed", errors.Wrap(out.err, "sending email"), map[string]interface{}{
			"email": sub.Email,
		})
		return RecipientResult{Email: sub.Email, Error: out.err.Error()}
	}
	return RecipientResult{Email: sub.Email, MessageID: out.id}
}

func (d *Dispatcher) buildMessage(req NotificationRequest) *core.EmailMessage {
	b, ok := badges[req.Type]
	if !ok {
		b = badges[TypeNews]
	}
	return &core.EmailMessage{
		Subject:      fmt.Sprintf("[%s] %s: %s", d.conf.AppName, b.label, req.Title),
		TemplateName: templateName,
		TemplateData: templateData{
			Badge:      b.label,
			BadgeColor: b.color,
			Title:      req.Title,
			Lines:      strings.Split(strings.ReplaceAll(req.Message, "\r\n", "\n"), "\n"),
			Link:       d.absoluteURL(req.Link),
			LinkLabel:  b.cta,
		},
	}
}

// absoluteURL prefixes site-relative links with the public site URL.
func (d *Dispatcher) absoluteURL(link string) string {
	if link == "" || !strings.HasPrefix(link, "/") {
		return link
	}
	return d.conf.FrontendBaseURL + link
}

type nopMetrics struct{}

func (nopMetrics) ObserveDispatch(string, string) {}
func (nopMetrics) ObserveEmail(bool)              {}
