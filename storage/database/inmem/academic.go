package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/madrasa/core/academic"
)

type academicRepository struct {
	exams        *table[academic.ExamResult]
	scholarships *table[academic.Scholarship]
	absences     *table[academic.Absence]
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{
		exams:        db.examResults,
		scholarships: db.scholarships,
		absences:     db.absences,
	}
}

func (repo *academicRepository) CreateExamResult(_ context.Context, res academic.ExamResult) (academic.ExamResult, error) {
	repo.exams.mutex.Lock()
	defer repo.exams.mutex.Unlock()
	repo.exams.rows[res.ID] = res
	return res, nil
}

func (repo *academicRepository) QueryExamResults(_ context.Context, filter academic.QueryFilter) ([]academic.ExamResult, error) {
	repo.exams.mutex.RLock()
	defer repo.exams.mutex.RUnlock()

	rows := make([]academic.ExamResult, 0, len(repo.exams.rows))
	for _, r := range repo.exams.all() {
		if filter.ClassName == "" || r.ClassName == filter.ClassName {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PublishedAt.After(rows[j].PublishedAt) })
	return limitRows(rows, filter.Limit), nil
}

func (repo *academicRepository) CreateScholarship(_ context.Context, sch academic.Scholarship) (academic.Scholarship, error) {
	repo.scholarships.mutex.Lock()
	defer repo.scholarships.mutex.Unlock()
	repo.scholarships.rows[sch.ID] = sch
	return sch, nil
}

func (repo *academicRepository) QueryScholarships(_ context.Context, filter academic.QueryFilter) ([]academic.Scholarship, error) {
	repo.scholarships.mutex.RLock()
	defer repo.scholarships.mutex.RUnlock()

	rows := repo.scholarships.all()
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return limitRows(rows, filter.Limit), nil
}

func (repo *academicRepository) CreateAbsence(_ context.Context, abs academic.Absence) (academic.Absence, error) {
	repo.absences.mutex.Lock()
	defer repo.absences.mutex.Unlock()
	repo.absences.rows[abs.ID] = abs
	return abs, nil
}

func (repo *academicRepository) QueryAbsences(_ context.Context, filter academic.QueryFilter) ([]academic.Absence, error) {
	repo.absences.mutex.RLock()
	defer repo.absences.mutex.RUnlock()

	rows := make([]academic.Absence, 0, len(repo.absences.rows))
	for _, a := range repo.absences.all() {
		if filter.ClassName == "" || a.ClassName == filter.ClassName {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return limitRows(rows, filter.Limit), nil
}
