package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tagdo/internal/cache"
	dom "tagdo/internal/domain"
	"tagdo/internal/repo"
	"tagdo/internal/tagname"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// TodoService handles todo CRUD and tag association rules.
type TodoService struct {
	todos repo.TodoRepo
	tags  repo.TagRepo
	cache *cache.ListCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(todos repo.TodoRepo, tags repo.TagRepo, c *cache.ListCache) *TodoService {
	return &TodoService{todos: todos, tags: tags, cache: c}
}

type CreateTodoInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Completed   bool
	Tags        []string
}

type UpdateTodoInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time // nil = unchanged
	Completed   *bool
	Tags        *[]string // nil = keep, non-nil (even empty) = replace all
}

type ListTodosInput struct {
	Completed *bool
	Query     string
	TagsCSV   string
	TagsMode  repo.TagsMode
	Limit     int
	Offset    int
}

func (s *TodoService) Create(ctx context.Context, in CreateTodoInput) (dom.Todo, error) {
	names, err := canonicalTagNames(in.Tags)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err := s.todos.Create(ctx, dom.Todo{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Completed:   in.Completed,
		DueDate:     in.DueDate,
	}, names)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) List(ctx context.Context, in ListTodosInput) ([]dom.Todo, error) {
	f := repo.TodoFilter{
		Completed: in.Completed,
		Query:     strings.TrimSpace(in.Query),
		Tags:      splitTagFilter(in.TagsCSV),
		TagsMode:  in.TagsMode,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if s.cache != nil {
		key := f.CacheKey()
		v, err, _ := s.sf.Do("list:"+key, func() (interface{}, error) {
			if list, err := s.cache.GetTodos(ctx, key); err == nil && list != nil {
				return list, nil
			}
			list, err := s.todos.List(ctx, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetTodos(ctx, key, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.todos.List(ctx, f)
}

func (s *TodoService) Update(ctx context.Context, id string, in UpdateTodoInput) (dom.Todo, error) {
	existing, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	if in.Title != nil {
		patch.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		patch.DueDate = in.DueDate
	}
	if in.Completed != nil {
		patch.Completed = *in.Completed
	}

	var names *[]string
	if in.Tags != nil {
		canonical, err := canonicalTagNames(*in.Tags)
		if err != nil {
			return dom.Todo{}, err
		}
		names = &canonical
	}

	t, err := s.todos.Update(ctx, id, patch, names)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.todos.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// AddTags attaches each name to the todo, creating tags as needed.
// Re-adding an already attached tag is a no-op.
func (s *TodoService) AddTags(ctx context.Context, id string, rawNames []string) (dom.Todo, error) {
	names, err := canonicalTagNames(rawNames)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err := s.todos.AddTags(ctx, id, names)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// RemoveTag detaches the tag from the todo and prunes the tag row when
// nothing references it anymore.
func (s *TodoService) RemoveTag(ctx context.Context, id, tagID string) error {
	if err := s.todos.RemoveTag(ctx, id, tagID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.tags.DeleteIfUnused(ctx, tagID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}

// canonicalTagNames normalizes, validates and deduplicates a raw name list,
// keeping the first occurrence's position.
func canonicalTagNames(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := tagname.Normalize(r)
		if err := tagname.Validate(name); err != nil {
			return nil, &TagNameError{Name: r, Err: err}
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// splitTagFilter turns the tags query param into a canonical name set.
// Empty segments are dropped; if nothing remains there is no tag filter.
func splitTagFilter(csv string) []string {
	if csv == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, seg := range strings.Split(csv, ",") {
		name := tagname.Normalize(seg)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
