package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Ordering fields shared by the repositories.
const (
	FieldPublishedAt = "published_at"
	FieldCreatedAt   = "created_at"
	FieldOrder       = "display_order"
)
