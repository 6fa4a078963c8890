// Package resolver finds catalog items for a colloquial product term.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/assistant/expansion"
)

const module = "ProductResolver"

// ErrCatalogUnavailable marks a failed direct lookup. An empty result is not an error.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

type Mode string

const (
	ModeSearch Mode = "search"
	ModeStock  Mode = "stock"
)

const (
	DefaultSearchLimit = 20
	RecentLimit        = 6
)

// Catalog is the read side of the product store the resolver needs.
type Catalog interface {
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	Recent(ctx context.Context, limit int) ([]*entity.Product, error)
}

type Resolver struct {
	catalog Catalog
	table   expansion.Table
	log     logger.ILogger
	limit   int
}

func New(catalog Catalog, table expansion.Table, log logger.ILogger) *Resolver {
	if table == nil {
		table = expansion.DefaultTable
	}
	return &Resolver{catalog: catalog, table: table, log: log, limit: DefaultSearchLimit}
}

// Resolve queries the catalog for term, trying its singular/plural variants,
// then falls back to the expansion table. Search mode keeps the first
// expansion that yields items; stock mode gathers every expansion and drops
// duplicates by id.
func (r *Resolver) Resolve(ctx context.Context, term string, mode Mode) ([]*entity.Product, error) {
	term = strings.TrimSpace(term)

	if term == "" {
		if mode == ModeStock {
			return []*entity.Product{}, nil
		}
		items, err := r.catalog.Recent(ctx, RecentLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		return items, nil
	}

	items, err := r.direct(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	return r.expand(ctx, term, mode)
}

// direct searches every singular/plural variant, shortest first, and merges
// the hits so "towel" and "towels" resolve to the same items.
func (r *Resolver) direct(ctx context.Context, term string) ([]*entity.Product, error) {
	variants := Variants(term)
	sort.SliceStable(variants, func(i, j int) bool { return len(variants[i]) < len(variants[j]) })

	var merged []*entity.Product
	for _, variant := range variants {
		items, err := r.catalog.Search(ctx, variant, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		merged = append(merged, items...)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	merged = Dedupe(merged)
	if len(merged) > r.limit {
		merged = merged[:r.limit]
	}
	return merged, nil
}

func (r *Resolver) expand(ctx context.Context, term string, mode Mode) ([]*entity.Product, error) {
	var accumulated []*entity.Product

	for _, keyword := range r.table.Expand(term) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := r.catalog.Search(ctx, keyword, r.limit)
		if err != nil {
			// A failed probe counts as empty.
			r.log.Warn(module, "Expansion probe failed", map[string]interface{}{
				"term":    term,
				"keyword": keyword,
				"error":   err.Error(),
			})
			continue
		}
		if len(items) == 0 {
			continue
		}

		if mode == ModeSearch {
			return items, nil
		}
		accumulated = append(accumulated, items...)
	}

	return Dedupe(accumulated), nil
}

// Dedupe keeps the first occurrence of each product id.
func Dedupe(items []*entity.Product) []*entity.Product {
	seen := make(map[int]bool, len(items))
	out := make([]*entity.Product, 0, len(items))
	for _, item := range items {
		if item == nil || seen[item.Id] {
			continue
		}
		seen[item.Id] = true
		out = append(out, item)
	}
	return out
}
