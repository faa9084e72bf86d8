package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mother_homes/internal/domain"
)

type QueryService struct {
	repo     domain.PropertyStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PropertyStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetProperty(ctx context.Context, id int64) (domain.PropertyView, error) {
	key := fmt.Sprintf("property:%d", id)
	var pv domain.PropertyView
	if ok, _ := s.cache.Get(ctx, key, &pv); ok {
		return pv, nil
	}
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.PropertyView{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

func (s *QueryService) ListProperties(ctx context.Context, q domain.PropertiesQuery) (domain.PropertiesPage, error) {
	cat := "all"
	if q.Category != nil {
		cat = *q.Category
	}
	key := listingKey(q.Limit, cat)
	var out domain.PropertiesPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	page, err := s.repo.ListProperties(ctx, q)
	if err != nil {
		return domain.PropertiesPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array (prevents callers from mutating cached value)
	copyPage := deepCopyPropertiesPage(page)

	// optional size guard
	if b, _ := json.Marshal(copyPage); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyPage, int(s.cacheTTL.Seconds()))
	}
	return copyPage, nil
}

func deepCopyPropertiesPage(in domain.PropertiesPage) domain.PropertiesPage {
	var out domain.PropertiesPage
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.PropertyView, n)
		copy(out.Items, in.Items)
	}
	return out
}
