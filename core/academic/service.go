package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/newsletter"
)

// Public pages linked from the notifications.
const (
	examResultsPath  = "/exam-results"
	scholarshipsPath = "/scholarships"
	absencesPath     = "/absences"
)

type (
	Repository interface {
		CreateExamResult(ctx context.Context, res ExamResult) (ExamResult, error)
		QueryExamResults(ctx context.Context, filter QueryFilter) ([]ExamResult, error)
		CreateScholarship(ctx context.Context, sch Scholarship) (Scholarship, error)
		QueryScholarships(ctx context.Context, filter QueryFilter) ([]Scholarship, error)
		CreateAbsence(ctx context.Context, abs Absence) (Absence, error)
		QueryAbsences(ctx context.Context, filter QueryFilter) ([]Absence, error)
	}

	// Notifier emits newsletter notifications without blocking.
	Notifier interface {
		Notify(req newsletter.NotificationRequest) bool
	}

	Service struct {
		repo     Repository
		notifier Notifier
		validate *validator.Validate
	}
)

// NewService returns an academic records Service. `notifier` may be nil to disable notifications.
func NewService(repo Repository, notifier Notifier, validate *validator.Validate) *Service {
	return &Service{repo: repo, notifier: notifier, validate: validate}
}

func (svc *Service) notify(req newsletter.NotificationRequest) {
	if svc.notifier != nil {
		svc.notifier.Notify(req)
	}
}

func (svc *Service) CreateExamResult(ctx context.Context, data NewExamResult) (ExamResult, error) {
	if err := data.Validate(svc.validate); err != nil {
		return ExamResult{}, err
	}

	now := time.Now().UTC()
	res := ExamResult{
		ID:          core.NewID(),
		Title:       data.Title,
		ClassName:   data.ClassName,
		Term:        data.Term,
		FileURL:     data.FileURL,
		PublishedAt: now,
		CreatedAt:   now,
	}
	if data.PublishedAt != nil {
		res.PublishedAt = data.PublishedAt.UTC()
	}
	res, err := svc.repo.CreateExamResult(ctx, res)
	if err != nil {
		return ExamResult{}, errors.Wrap(err, "creating exam result")
	}

	msg := fmt.Sprintf("Results for %s (%s) have been published.", res.Title, res.ClassName)
	if res.Term != "" {
		msg = fmt.Sprintf("Results for %s (%s, %s) have been published.", res.Title, res.ClassName, res.Term)
	}
	svc.notify(newsletter.NotificationRequest{
		Type:    newsletter.TypeAcademic,
		Title:   "New Exam Results: " + res.Title,
		Message: msg,
		Link:    examResultsPath,
	})
	return res, nil
}

func (svc *Service) QueryExamResults(ctx context.Context, filter QueryFilter) ([]ExamResult, error) {
	filter.Clean()
	return svc.repo.QueryExamResults(ctx, filter)
}

func (svc *Service) CreateScholarship(ctx context.Context, data NewScholarship) (Scholarship, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Scholarship{}, err
	}

	sch := Scholarship{
		ID:          core.NewID(),
		Title:       data.Title,
		Description: data.Description,
		Eligibility: data.Eligibility,
		CreatedAt:   time.Now().UTC(),
	}
	if data.Deadline != nil {
		deadline := data.Deadline.UTC()
		sch.Deadline = &deadline
	}
	sch, err := svc.repo.CreateScholarship(ctx, sch)
	if err != nil {
		return Scholarship{}, errors.Wrap(err, "creating scholarship")
	}

	msg := sch.Description
	if msg == "" {
		msg = "A new scholarship opportunity is available."
	}
	if sch.Deadline != nil {
		msg += "\nApplication deadline: " + sch.Deadline.Format("January 2, 2006")
	}
	svc.notify(newsletter.NotificationRequest{
		Type:    newsletter.TypeAcademic,
		Title:   "New Scholarship: " + sch.Title,
		Message: msg,
		Link:    scholarshipsPath,
	})
	return sch, nil
}

func (svc *Service) QueryScholarships(ctx context.Context, filter QueryFilter) ([]Scholarship, error) {
	filter.Clean()
	return svc.repo.QueryScholarships(ctx, filter)
}

func (svc *Service) CreateAbsence(ctx context.Context, data NewAbsence) (Absence, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Absence{}, err
	}

	abs, err := svc.repo.CreateAbsence(ctx, Absence{
		ID:          core.NewID(),
		StudentName: data.StudentName,
		ClassName:   data.ClassName,
		Date:        data.Date.UTC(),
		Reason:      data.Reason,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Absence{}, errors.Wrap(err, "creating absence")
	}

	msg := fmt.Sprintf("An absence was recorded for %s (%s) on %s.", abs.StudentName, abs.ClassName, abs.Date.Format("January 2, 2006"))
	if abs.Reason != "" {
		msg += "\nReason: " + abs.Reason
	}
	svc.notify(newsletter.NotificationRequest{
		Type:    newsletter.TypeAcademic,
		Title:   "Absence Report",
		Message: msg,
		Link:    absencesPath,
	})
	return abs, nil
}

func (svc *Service) QueryAbsences(ctx context.Context, filter QueryFilter) ([]Absence, error) {
	filter.Clean()
	return svc.repo.QueryAbsences(ctx, filter)
}
