package newsletter

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/madrasa/core"
)

// Subscriber statuses
const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
)

// Notification types
const (
	TypeNews     = "news"
	TypeAcademic = "academic"
)

// Dispatch outcomes
const (
	DispatchSent          = "sent"
	DispatchPreview       = "preview"
	DispatchNoSubscribers = "no_subscribers"
)

// Dispatch modes
const (
	ModeManual    = "manual"
	ModeAutomatic = "automatic"
)

type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	SubscribedAt   time.Time  `json:"subscribedAt"`             // UTC
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"` // UTC
}

func (s Subscriber) IsActive() bool { return s.Status == StatusActive }

type SubscriptionRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (sr *SubscriptionRequest) Validate(validate *validator.Validate) error {
	sr.Email = core.CleanString(sr.Email, true /* lower */)
	return validate.Struct(sr)
}

type QueryFilter struct {
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// NotificationRequest is a message to send to every active Subscriber. It is not persisted.
type NotificationRequest struct {
	Type    string `json:"type" validate:"required,oneof=news academic"`
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank"`
	Link    string `json:"link" validate:"omitempty,uri"`
}

func (nr *NotificationRequest) Validate(validate *validator.Validate) error {
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Title = core.CleanString(nr.Title)
	nr.Message = core.CleanString(nr.Message)
	nr.Link = core.CleanString(nr.Link)
	return validate.Struct(nr)
}

// RecipientResult is the outcome of the delivery to one Subscriber.
type RecipientResult struct {
	Email     string `json:"email"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (rr RecipientResult) OK() bool { return rr.Error == "" }

// Result aggregates a dispatch.
// Success is false only when every delivery failed.
type Result struct {
	Success          bool              `json:"success"`
	Status           string            `json:"status"`
	SubscribersCount int               `json:"subscribersCount"`
	Successful       int               `json:"successful"`
	Failed           int               `json:"failed"`
	Subject          string            `json:"subject,omitempty"`
	Recipients       []string          `json:"recipients,omitempty"` // preview only
	Results          []RecipientResult `json:"perRecipientResults,omitempty"`
	Message          string            `json:"message,omitempty"`
}
