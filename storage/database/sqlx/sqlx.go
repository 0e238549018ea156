package sqlxrepos

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/madrasa/core"
)

const uniqueViolation = "23505"

// orderBy builds an "ORDER BY" clause from the orderings whose field is a column of `columns`.
func orderBy(orderings []core.DBOrdering, columns ...string) string {
	clauses := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		for _, col := range columns {
			if ord.Field == col {
				clauses = append(clauses, ord.String())
				break
			}
		}
	}
	if len(clauses) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func nullTime(t *time.Time) null.Time {
	return null.TimeFromPtr(t)
}

func timePtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
