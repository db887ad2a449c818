package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Tags in attach order. Nil/empty when the todo has none.
	Tags []Tag
}
