package repo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TagsMode selects how a multi-tag filter matches.
type TagsMode string

const (
	TagsModeOr  TagsMode = "or"
	TagsModeAnd TagsMode = "and"
)

// TodoFilter describes a todo list query. Tags must already be canonical
// (normalized, deduplicated, no empty names); an empty Tags slice means no
// tag filter at all.
type TodoFilter struct {
	Completed *bool
	Query     string
	Tags      []string
	TagsMode  TagsMode
	Limit     int
	Offset    int
}

const todoColumns = `id, title, description, completed, due_date, created_at, updated_at`

// buildQuery translates the filter into a parameterized SELECT. All filter
// conditions compose with AND; ordering is always creation time descending
// with id as a deterministic tie-break.
func (f TodoFilter) buildQuery() (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Completed != nil {
		conds = append(conds, "completed = "+next(*f.Completed))
	}
	if f.Query != "" {
		p := next("%" + f.Query + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if len(f.Tags) > 0 {
		if f.TagsMode == TagsModeAnd {
			// Superset check: the todo must carry every requested name. A
			// name no tag has can never be matched, so the count falls short.
			conds = append(conds, fmt.Sprintf(
				`(SELECT COUNT(DISTINCT tg.name) FROM todo_tags tt JOIN tags tg ON tg.id = tt.tag_id
				WHERE tt.todo_id = todos.id AND tg.name = ANY(%s)) = %s`,
				next(f.Tags), next(len(f.Tags))))
		} else {
			conds = append(conds, fmt.Sprintf(
				`EXISTS (SELECT 1 FROM todo_tags tt JOIN tags tg ON tg.id = tt.tag_id
				WHERE tt.todo_id = todos.id AND tg.name = ANY(%s))`,
				next(f.Tags)))
		}
	}

	var b strings.Builder
	b.WriteString("SELECT " + todoColumns + " FROM todos")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + next(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + next(f.Offset))
	}
	return b.String(), args
}

// CacheKey is a canonical string form of the filter, stable across calls
// with the same meaning. Tag order does not change match semantics, so tags
// are sorted into the key.
func (f TodoFilter) CacheKey() string {
	completed := "nil"
	if f.Completed != nil {
		completed = strconv.FormatBool(*f.Completed)
	}
	tags := append([]string(nil), f.Tags...)
	sort.Strings(tags)
	mode := f.TagsMode
	if mode == "" {
		mode = TagsModeOr
	}
	return strings.Join([]string{
		"completed=" + completed,
		"q=" + strings.ToLower(f.Query),
		"tags=" + strings.Join(tags, ","),
		"mode=" + string(mode),
		"limit=" + strconv.Itoa(f.Limit),
		"offset=" + strconv.Itoa(f.Offset),
	}, "|")
}
