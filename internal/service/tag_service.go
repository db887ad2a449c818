package service

import (
	"context"

	"tagdo/internal/cache"
	dom "tagdo/internal/domain"
	"tagdo/internal/repo"
	"tagdo/internal/tagname"

	"golang.org/x/sync/singleflight"
)

// TagService handles tag creation and listing.
type TagService struct {
	repo  repo.TagRepo
	cache *cache.ListCache
	sf    singleflight.Group
}

// NewTagService creates a TagService. If c is nil, caching is disabled.
func NewTagService(r repo.TagRepo, c *cache.ListCache) *TagService {
	return &TagService{repo: r, cache: c}
}

// GetOrCreate normalizes and validates the raw name, then returns the
// matching tag, creating it if needed. created reports whether a new row
// was inserted. Two raw inputs that normalize identically always resolve to
// the same tag.
func (s *TagService) GetOrCreate(ctx context.Context, raw string) (dom.Tag, bool, error) {
	name := tagname.Normalize(raw)
	if err := tagname.Validate(name); err != nil {
		return dom.Tag{}, false, &TagNameError{Name: raw, Err: err}
	}
	t, created, err := s.repo.FindOrCreate(ctx, name)
	if err != nil {
		return dom.Tag{}, false, err
	}
	if created {
		s.invalidateCache(ctx)
	}
	return t, created, nil
}

// List returns all tags with usage counts, name ascending.
func (s *TagService) List(ctx context.Context) ([]dom.TagCount, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("tags", func() (interface{}, error) {
			if list, err := s.cache.GetTags(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetTags(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.TagCount), nil
	}
	return s.repo.List(ctx)
}

func (s *TagService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
