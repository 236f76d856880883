// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/papers-search/pkg/types"
)

// Details is everything the paper detail view shows for one handle.
type Details struct {
	Handle   string               `json:"handle" yaml:"handle"`
	Versions []types.SearchResult `json:"versions" yaml:"versions"`
	Cites    []types.SearchResult `json:"cites" yaml:"cites"`
	CitedBy  []types.SearchResult `json:"cited_by" yaml:"cited_by"`
	Stats    *types.HandleStats   `json:"stats" yaml:"stats"`
}

// FetchDetails loads versions, references, citing papers, and statistics
// for handle concurrently. Any failure cancels the rest and no partial
// Details is returned.
func (c *Client) FetchDetails(ctx context.Context, handle string, limit int) (*Details, error) {
	d := &Details{Handle: handle}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := c.Versions(gctx, handle)
		d.Versions = v
		return err
	})
	g.Go(func() error {
		v, err := c.Cites(gctx, handle, limit)
		d.Cites = v
		return err
	})
	g.Go(func() error {
		v, err := c.CitedBy(gctx, handle, limit)
		d.CitedBy = v
		return err
	})
	g.Go(func() error {
		s, err := c.HandleStats(gctx, handle)
		d.Stats = s
		return err
	})

	if err := g.Wait(); err != nil {
		c.log.Error("detail fetch failed", "handle", handle, "err", err)
		return nil, err
	}
	if d.Versions == nil {
		d.Versions = []types.SearchResult{}
	}
	if d.Cites == nil {
		d.Cites = []types.SearchResult{}
	}
	if d.CitedBy == nil {
		d.CitedBy = []types.SearchResult{}
	}
	return d, nil
}
