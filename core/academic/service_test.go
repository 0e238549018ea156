package academic_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/academic"
	"github.com/trezcool/madrasa/core/newsletter"
	inmemdb "github.com/trezcool/madrasa/storage/database/inmem"
)

type notifierStub struct {
	reqs []newsletter.NotificationRequest
}

func (n *notifierStub) Notify(req newsletter.NotificationRequest) bool {
	n.reqs = append(n.reqs, req)
	return false // a dropped notification must not fail the caller
}

func setup() (*academic.Service, *notifierStub) {
	validate, _ := core.NewValidator()
	notifier := new(notifierStub)
	return academic.NewService(inmemdb.NewAcademicRepository(inmemdb.NewDB()), notifier, validate), notifier
}

func TestService_CreateExamResult(t *testing.T) {
	svc, notifier := setup()
	ctx := context.Background()

	_, err := svc.CreateExamResult(ctx, academic.NewExamResult{Title: " ", ClassName: "Class 5"})
	assert.IsType(t, validator.ValidationErrors{}, err)
	assert.Empty(t, notifier.reqs, "nothing is notified for invalid data")

	res, err := svc.CreateExamResult(ctx, academic.NewExamResult{Title: " Mid-term Math ", ClassName: "Class 5", Term: "Term 2"})
	require.NoError(t, err)
	assert.Equal(t, "Mid-term Math", res.Title)
	assert.False(t, res.PublishedAt.IsZero())

	require.Len(t, notifier.reqs, 1)
	req := notifier.reqs[0]
	assert.Equal(t, newsletter.TypeAcademic, req.Type)
	assert.Equal(t, "New Exam Results: Mid-term Math", req.Title)
	assert.Equal(t, "Results for Mid-term Math (Class 5, Term 2) have been published.", req.Message)
	assert.Equal(t, "/exam-results", req.Link)

	results, err := svc.QueryExamResults(ctx, academic.QueryFilter{ClassName: " Class 5 "})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, res.ID, results[0].ID)

	results, err = svc.QueryExamResults(ctx, academic.QueryFilter{ClassName: "Class 6"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestService_CreateScholarship(t *testing.T) {
	svc, notifier := setup()
	ctx := context.Background()

	deadline := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sch, err := svc.CreateScholarship(ctx, academic.NewScholarship{Title: "Merit Award", Deadline: &deadline})
	require.NoError(t, err)
	require.NotNil(t, sch.Deadline)
	assert.True(t, deadline.Equal(*sch.Deadline))

	require.Len(t, notifier.reqs, 1)
	assert.Equal(t, "New Scholarship: Merit Award", notifier.reqs[0].Title)
	assert.Equal(t, "A new scholarship opportunity is available.\nApplication deadline: June 30, 2025", notifier.reqs[0].Message)
	assert.Equal(t, "/scholarships", notifier.reqs[0].Link)
}

func TestService_CreateAbsence(t *testing.T) {
	svc, notifier := setup()
	ctx := context.Background()

	_, err := svc.CreateAbsence(ctx, academic.NewAbsence{StudentName: "Amina", ClassName: "Class 3"})
	assert.IsType(t, validator.ValidationErrors{}, err, "date is required")

	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err = svc.CreateAbsence(ctx, academic.NewAbsence{StudentName: "Amina", ClassName: "Class 3", Date: day, Reason: "Sick"})
	require.NoError(t, err)

	require.Len(t, notifier.reqs, 1)
	assert.Equal(t, "Absence Report", notifier.reqs[0].Title)
	assert.Equal(t, "An absence was recorded for Amina (Class 3) on March 4, 2025.\nReason: Sick", notifier.reqs[0].Message)

	absences, err := svc.QueryAbsences(ctx, academic.QueryFilter{Limit: -3})
	require.NoError(t, err)
	assert.Len(t, absences, 1)
}

func TestService_nilNotifier(t *testing.T) {
	validate, _ := core.NewValidator()
	svc := academic.NewService(inmemdb.NewAcademicRepository(inmemdb.NewDB()), nil, validate)

	_, err := svc.CreateExamResult(context.Background(), academic.NewExamResult{Title: "Finals", ClassName: "Class 1"})
	assert.NoError(t, err)
}
