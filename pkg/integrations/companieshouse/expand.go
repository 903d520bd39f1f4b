package companieshouse

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chouse/pkg/record"
)

const linksKey = "links"

// relation is one entry of a "links" object selected for fetching.
type relation struct {
	name string
	url  string
	raw  string
	// cyclic relations point at an object already being expanded further
	// up and keep their URL.
	cyclic bool
}

// expand replaces obj's "links" entry by the resources it points to.
// depth is the level of obj's relations (1 for the looked-up profile) and
// path holds the resolved URLs of obj and its ancestors.
func (c *Client) expand(ctx context.Context, obj *record.Map, depth int, path []string) error {
	v, ok := obj.Get(linksKey)
	if !ok {
		return nil
	}
	obj.Delete(linksKey)
	if depth > c.maxDepth {
		return nil
	}
	links, ok := v.AsMap()
	if !ok {
		c.logger.Debug("ignoring non-object links", "kind", v.Kind())
		return nil
	}

	var rels []relation
	for name, target := range links.All() {
		if name == "self" {
			continue
		}
		raw, ok := target.AsString()
		if !ok {
			c.logger.Debug("ignoring non-string link", "relation", name)
			continue
		}
		u, err := c.resolve(raw)
		if err != nil {
			return err
		}
		rels = append(rels, relation{
			name:   name,
			url:    u,
			raw:    raw,
			cyclic: depth > 1 && slices.Contains(path, u),
		})
	}

	results := make([]*record.Map, len(rels))
	fetch := func(ctx context.Context, i int) error {
		if rels[i].cyclic {
			return nil
		}
		sub, _, err := c.get(ctx, rels[i].url)
		if err != nil {
			return err
		}
		if depth < c.maxDepth {
			if err := c.expand(ctx, sub, depth+1, append(slices.Clip(path), rels[i].url)); err != nil {
				return err
			}
		}
		results[i] = sub
		return nil
	}

	if c.concurrency > 1 && len(rels) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for i := range rels {
			g.Go(func() error { return fetch(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i := range rels {
			if err := fetch(ctx, i); err != nil {
				return err
			}
		}
	}

	for i, rel := range rels {
		if rel.cyclic {
			obj.Set(rel.name, record.String(rel.raw))
			continue
		}
		obj.Set(rel.name, record.MapOf(results[i]))
	}
	return nil
}
