package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/madrasa/core/academic"
)

type examResultRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	ClassName   string    `db:"class_name"`
	Term        string    `db:"term"`
	FileURL     string    `db:"file_url"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type scholarshipRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Eligibility string    `db:"eligibility"`
	Deadline    null.Time `db:"deadline"`
	CreatedAt   time.Time `db:"created_at"`
}

type absenceRow struct {
	ID          string    `db:"id"`
	StudentName string    `db:"student_name"`
	ClassName   string    `db:"class_name"`
	AbsentOn    time.Time `db:"absent_on"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

type academicRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db *sqlx.DB) academic.Repository {
	return &academicRepository{db: db}
}

// where builds the class filter & limit shared by the academic listings.
func where(filter academic.QueryFilter, orderCol string) (string, []interface{}) {
	var (
		clause string
		args   []interface{}
	)
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		clause += ` WHERE class_name = $1`
	}
	clause += ` ORDER BY ` + orderCol + ` DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		if len(args) == 1 {
			clause += ` LIMIT $1`
		} else {
			clause += ` LIMIT $2`
		}
	}
	return clause, args
}

func (repo *academicRepository) CreateExamResult(ctx context.Context, res academic.ExamResult) (academic.ExamResult, error) {
	q := `INSERT INTO exam_results (id, title, class_name, term, file_url, published_at, created_at)
		VALUES (:id, :title, :class_name, :term, :file_url, :published_at, :created_at)`
	row := examResultRow(res)
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return academic.ExamResult{}, errors.Wrap(err, "inserting exam result")
	}
	return res, nil
}

func (repo *academicRepository) QueryExamResults(ctx context.Context, filter academic.QueryFilter) ([]academic.ExamResult, error) {
	clause, args := where(filter, "published_at")
	var rows []examResultRow
	q := `SELECT id, title, class_name, term, file_url, published_at, created_at FROM exam_results` + clause
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting exam results")
	}

	list := make([]academic.ExamResult, 0, len(rows))
	for _, r := range rows {
		r.PublishedAt, r.CreatedAt = r.PublishedAt.UTC(), r.CreatedAt.UTC()
		list = append(list, academic.ExamResult(r))
	}
	return list, nil
}

func (repo *academicRepository) CreateScholarship(ctx context.Context, sch academic.Scholarship) (academic.Scholarship, error) {
	q := `INSERT INTO scholarships (id, title, description, eligibility, deadline, created_at)
		VALUES (:id, :title, :description, :eligibility, :deadline, :created_at)`
	row := scholarshipRow{
		ID:          sch.ID,
		Title:       sch.Title,
		Description: sch.Description,
		Eligibility: sch.Eligibility,
		Deadline:    nullTime(sch.Deadline),
		CreatedAt:   sch.CreatedAt,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return academic.Scholarship{}, errors.Wrap(err, "inserting scholarship")
	}
	return sch, nil
}

func (repo *academicRepository) QueryScholarships(ctx context.Context, filter academic.QueryFilter) ([]academic.Scholarship, error) {
	filter.ClassName = "" // scholarships are school-wide
	clause, args := where(filter, "created_at")
	var rows []scholarshipRow
	q := `SELECT id, title, description, eligibility, deadline, created_at FROM scholarships` + clause
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting scholarships")
	}

	list := make([]academic.Scholarship, 0, len(rows))
	for _, r := range rows {
		list = append(list, academic.Scholarship{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Eligibility: r.Eligibility,
			Deadline:    timePtr(r.Deadline),
			CreatedAt:   r.CreatedAt.UTC(),
		})
	}
	return list, nil
}

func (repo *academicRepository) CreateAbsence(ctx context.Context, abs academic.Absence) (academic.Absence, error) {
	q := `INSERT INTO absences (id, student_name, class_name, absent_on, reason, created_at)
		VALUES (:id, :student_name, :class_name, :absent_on, :reason, :created_at)`
	row := absenceRow{
		ID:          abs.ID,
		StudentName: abs.StudentName,
		ClassName:   abs.ClassName,
		AbsentOn:    abs.Date,
		Reason:      abs.Reason,
		CreatedAt:   abs.CreatedAt,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return academic.Absence{}, errors.Wrap(err, "inserting absence")
	}
	return abs, nil
}

func (repo *academicRepository) QueryAbsences(ctx context.Context, filter academic.QueryFilter) ([]academic.Absence, error) {
	clause, args := where(filter, "absent_on")
	var rows []absenceRow
	q := `SELECT id, student_name, class_name, absent_on, reason, created_at FROM absences` + clause
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting absences")
	}

	list := make([]academic.Absence, 0, len(rows))
	for _, r := range rows {
		list = append(list, academic.Absence{
			ID:          r.ID,
			StudentName: r.StudentName,
			ClassName:   r.ClassName,
			Date:        r.AbsentOn.UTC(),
			Reason:      r.Reason,
			CreatedAt:   r.CreatedAt.UTC(),
		})
	}
	return list, nil
}
