package services

import (
	"context"
	"sync"

	"wordma/pkg/models"
)

// articleCache keeps the article list in memory until a write invalidates it.
type articleCache struct {
	mu     sync.Mutex
	items  []models.Article
	loaded bool
}

func (c *articleCache) get(ctx context.Context, load func(context.Context) ([]models.Article, error)) ([]models.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.items = items
		c.loaded = true
	}

	out := make([]models.Article, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *articleCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.items = nil
}
