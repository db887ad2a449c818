package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DueDate parses dueDate from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=100"`
	Description string  `json:"description" binding:"max=1000"`
	DueDate     DueDate `json:"dueDate"` // optional: "2026-02-19" or RFC3339
	Completed   bool    `json:"completed"`
	// Tags are raw names; normalized and validated by the service.
	// nil = no tags. A non-array value fails JSON binding.
	Tags []string `json:"tags"`
}

type UpdateTodoRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	DueDate     *DueDate `json:"dueDate"` // nil = не менять, значение = поставить
	Completed   *bool    `json:"completed"`
	// nil = keep associations, non-nil (even empty) = replace the whole set.
	Tags *[]string `json:"tags"`
}

type AddTagsRequest struct {
	TagNames []string `json:"tagNames" binding:"required,min=1"`
}

type TodoResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Tags        []TagResponse `json:"tags"`
}
