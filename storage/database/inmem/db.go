package inmemdb

import (
	"sort"
	"sync"
	"time"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/academic"
	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
)

type table[T any] struct {
	mutex sync.RWMutex
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

// all returns every row, unsorted. Callers must hold the lock.
func (t *table[T]) all() []T {
	rows := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, row)
	}
	return rows
}

// DB is a process-local database, for development and tests.
type DB struct {
	news         *table[content.News]
	gallery      *table[content.GalleryImage]
	selections   *table[homepage.Selection]
	subscribers  *table[newsletter.Subscriber]
	examResults  *table[academic.ExamResult]
	scholarships *table[academic.Scholarship]
	absences     *table[academic.Absence]
}

func NewDB() *DB {
	return &DB{
		news:         newTable[content.News](),
		gallery:      newTable[content.GalleryImage](),
		selections:   newTable[homepage.Selection](),
		subscribers:  newTable[newsletter.Subscriber](),
		examResults:  newTable[academic.ExamResult](),
		scholarships: newTable[academic.Scholarship](),
		absences:     newTable[academic.Absence](),
	}
}

// column returns the value of `field` for a row; supported values are time.Time, int and string.
type column[T any] func(row T, field string) interface{}

// sortRows sorts `rows` by `orderings`, the first ordering being the most significant.
func sortRows[T any](rows []T, orderings []core.DBOrdering, col column[T]) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range orderings {
			c := compare(col(rows[i], ord.Field), col(rows[j], ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
	case int:
		bv := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func limitRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
