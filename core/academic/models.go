package academic

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/madrasa/core"
)

type ExamResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ClassName   string    `json:"className"`
	Term        string    `json:"term"`
	FileURL     string    `json:"fileUrl"`
	PublishedAt time.Time `json:"publishedAt"` // UTC
	CreatedAt   time.Time `json:"createdAt"`   // UTC
}

type Scholarship struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Eligibility string     `json:"eligibility"`
	Deadline    *time.Time `json:"deadline,omitempty"` // UTC
	CreatedAt   time.Time  `json:"createdAt"`          // UTC
}

// Absence records a student missing school on a given day.
type Absence struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	ClassName   string    `json:"className"`
	Date        time.Time `json:"date"` // UTC
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
}

type NewExamResult struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	ClassName   string     `json:"className" validate:"required,notblank,max=100"`
	Term        string     `json:"term" validate:"max=100"`
	FileURL     string     `json:"fileUrl" validate:"omitempty,url"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (ne *NewExamResult) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.ClassName = core.CleanString(ne.ClassName)
	ne.Term = core.CleanString(ne.Term)
	ne.FileURL = core.CleanString(ne.FileURL)
	return validate.Struct(ne)
}

type NewScholarship struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description string     `json:"description"`
	Eligibility string     `json:"eligibility"`
	Deadline    *time.Time `json:"deadline"`
}

func (ns *NewScholarship) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.Description = core.CleanString(ns.Description)
	ns.Eligibility = core.CleanString(ns.Eligibility)
	return validate.Struct(ns)
}

type NewAbsence struct {
	StudentName string    `json:"studentName" validate:"required,notblank,max=200"`
	ClassName   string    `json:"className" validate:"required,notblank,max=100"`
	Date        time.Time `json:"date" validate:"required"`
	Reason      string    `json:"reason" validate:"max=500"`
}

func (na *NewAbsence) Validate(validate *validator.Validate) error {
	na.StudentName = core.CleanString(na.StudentName)
	na.ClassName = core.CleanString(na.ClassName)
	na.Reason = core.CleanString(na.Reason)
	return validate.Struct(na)
}

type QueryFilter struct {
	ClassName string `query:"class"`
	Limit     int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.ClassName = core.CleanString(qf.ClassName)
	if qf.Limit < 0 {
		qf.Limit = 0
	}
}
