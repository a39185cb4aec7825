package shell

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LooksUpBookIDs is the part of sqlengine.Session the TitleResolver needs.
type LooksUpBookIDs interface {
	BookIDByTitle(ctx context.Context, title string) (int64, error)
}

// TitleResolver turns book titles into book ids.
// Titles are not unique; the book with the lowest id wins. Successful lookups are cached: books are never
// updated or deleted, so the lowest id for a title cannot change once it exists. Misses are never cached.
type TitleResolver struct {
	cache *lru.Cache[string, int64]
}

// NewTitleResolver creates a TitleResolver caching up to cacheSize titles. Zero disables the cache.
func NewTitleResolver(cacheSize int) (*TitleResolver, error) {
	if cacheSize <= 0 {
		return &TitleResolver{}, nil
	}

	cache, err := lru.New[string, int64](cacheSize)
	if err != nil {
		return nil, err
	}

	return &TitleResolver{cache: cache}, nil
}

// Resolve returns the id of the book titled title, looked up through session on a cache miss.
// An unknown title fails with library.ErrBookNotFound.
func (r *TitleResolver) Resolve(ctx context.Context, session LooksUpBookIDs, title string) (int64, error) {
	if r.cache != nil {
		if id, ok := r.cache.Get(title); ok {
			return id, nil
		}
	}

	id, err := session.BookIDByTitle(ctx, title)
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		r.cache.Add(title, id)
	}

	return id, nil
}

// ResolveAll resolves every title in input order and stops at the first failure.
func (r *TitleResolver) ResolveAll(ctx context.Context, session LooksUpBookIDs, titles []string) ([]int64, error) {
	ids := make([]int64, 0, len(titles))

	for _, title := range titles {
		id, err := r.Resolve(ctx, session, title)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Cached reports how many titles are currently cached.
func (r *TitleResolver) Cached() int {
	if r.cache == nil {
		return 0
	}

	return r.cache.Len()
}
