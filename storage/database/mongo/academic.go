package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/academic"
)

type examResultDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	ClassName   string    `bson:"class_name"`
	Term        string    `bson:"term"`
	FileURL     string    `bson:"file_url"`
	PublishedAt time.Time `bson:"published_at"`
	CreatedAt   time.Time `bson:"created_at"`
}

type scholarshipDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Eligibility string     `bson:"eligibility"`
	Deadline    *time.Time `bson:"deadline,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
}

type absenceDoc struct {
	ID          string    `bson:"_id"`
	StudentName string    `bson:"student_name"`
	ClassName   string    `bson:"class_name"`
	Date        time.Time `bson:"absent_on"`
	Reason      string    `bson:"reason"`
	CreatedAt   time.Time `bson:"created_at"`
}

type academicRepository struct {
	exams        *mongo.Collection
	scholarships *mongo.Collection
	absences     *mongo.Collection
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db *mongo.Database) academic.Repository {
	return &academicRepository{
		exams:        db.Collection(examsColl),
		scholarships: db.Collection(scholarsColl),
		absences:     db.Collection(absencesColl),
	}
}

func classQuery(filter academic.QueryFilter) bson.M {
	query := bson.M{}
	if filter.ClassName != "" {
		query["class_name"] = filter.ClassName
	}
	return query
}

func latest(field string) bson.D {
	return sortBy([]core.DBOrdering{{Field: field}})
}

func (repo *academicRepository) CreateExamResult(ctx context.Context, res academic.ExamResult) (academic.ExamResult, error) {
	if _, err := repo.exams.InsertOne(ctx, examResultDoc(res)); err != nil {
		return academic.ExamResult{}, errors.Wrap(err, "inserting exam result")
	}
	return res, nil
}

func (repo *academicRepository) QueryExamResults(ctx context.Context, filter academic.QueryFilter) ([]academic.ExamResult, error) {
	opts := findOptions(latest(core.FieldPublishedAt), filter.Limit)
	list, err := findAll(ctx, repo.exams, classQuery(filter), opts, func(d examResultDoc) academic.ExamResult {
		d.PublishedAt, d.CreatedAt = utc(d.PublishedAt), utc(d.CreatedAt)
		return academic.ExamResult(d)
	})
	return list, errors.Wrap(err, "finding exam results")
}

func (repo *academicRepository) CreateScholarship(ctx context.Context, sch academic.Scholarship) (academic.Scholarship, error) {
	if _, err := repo.scholarships.InsertOne(ctx, scholarshipDoc(sch)); err != nil {
		return academic.Scholarship{}, errors.Wrap(err, "inserting scholarship")
	}
	return sch, nil
}

func (repo *academicRepository) QueryScholarships(ctx context.Context, filter academic.QueryFilter) ([]academic.Scholarship, error) {
	opts := findOptions(latest(core.FieldCreatedAt), filter.Limit)
	list, err := findAll(ctx, repo.scholarships, bson.M{}, opts, func(d scholarshipDoc) academic.Scholarship {
		d.Deadline, d.CreatedAt = utcPtr(d.Deadline), utc(d.CreatedAt)
		return academic.Scholarship(d)
	})
	return list, errors.Wrap(err, "finding scholarships")
}

func (repo *academicRepository) CreateAbsence(ctx context.Context, abs academic.Absence) (academic.Absence, error) {
	if _, err := repo.absences.InsertOne(ctx, absenceDoc(abs)); err != nil {
		return academic.Absence{}, errors.Wrap(err, "inserting absence")
	}
	return abs, nil
}

func (repo *academicRepository) QueryAbsences(ctx context.Context, filter academic.QueryFilter) ([]academic.Absence, error) {
	opts := findOptions(latest("absent_on"), filter.Limit)
	list, err := findAll(ctx, repo.absences, classQuery(filter), opts, func(d absenceDoc) academic.Absence {
		d.Date, d.CreatedAt = utc(d.Date), utc(d.CreatedAt)
		return academic.Absence(d)
	})
	return list, errors.Wrap(err, "finding absences")
}
