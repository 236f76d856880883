// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the state of one search session: the current
// filters, the last applied results, and the phase of the most recent
// search or restore.
//
// Network calls never hold the controller lock, so a new Submit can start
// while an earlier one is still in flight. Each search or restore takes a
// new epoch; a response is applied only if its epoch is still current
// when it arrives, so the last submitted request wins regardless of which
// one returns first.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/internal/savedsearch"
	"github.com/pdiddy/papers-search/pkg/types"
)

// FailureMessage is shown when a search fails.
const FailureMessage = "Search failed. Please try again."

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("session closed")

// Remote is the search service as seen by the controller. *api.Client
// implements it.
type Remote interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.SearchResult, error)
	SaveSearch(ctx context.Context, req types.SaveRequest) (types.SaveResponse, error)
	LoadSearch(ctx context.Context, hash string) (types.SavedSearchRecord, error)
}

// Phase is where the session is in its search lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRestoring
	PhaseSearching
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRestoring:
		return "restoring"
	case PhaseSearching:
		return "searching"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome reports what a Submit or Restore did to the session state.
type Outcome int

const (
	// OutcomeSkipped: nothing to do (empty query, no handle).
	OutcomeSkipped Outcome = iota
	// OutcomeApplied: the response was applied.
	OutcomeApplied
	// OutcomeFailed: the call failed and the failure was applied.
	OutcomeFailed
	// OutcomeDiscarded: the response arrived after a newer request
	// started, or after Close, and was dropped.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Summary describes the last applied result set.
type Summary struct {
	Count     int
	MinYear   int
	HasFilter bool
}

func (s Summary) String() string {
	if s.MinYear > 0 {
		return fmt.Sprintf("Showing %d results from %d onward.", s.Count, s.MinYear)
	}
	return fmt.Sprintf("Showing %d results.", s.Count)
}

// Summarize describes n results fetched with f. HasFilter reports whether
// a journal filter was sent.
func Summarize(f filters.FilterSet, n int) Summary {
	return Summary{Count: n, MinYear: f.MinYear, HasFilter: !f.Categories.IsEmpty()}
}

// State is a snapshot of the session.
type State struct {
	Filters         filters.FilterSet
	Results         []types.SearchResult
	Phase           Phase
	HasSearchedOnce bool
	SavedHandle     string
	ShareURL        string
	Epoch           uint64
	ErrorMessage    string
	Summary         Summary
}

// SavedLink is the outcome of a successful Save.
type SavedLink struct {
	Handle   string
	ShareURL string
	Request  types.SaveRequest
	Results  int
}

// Options configures a Controller.
type Options struct {
	Logger *slog.Logger

	// ShareBase is the location share URLs are built on.
	ShareBase string

	// OnSaved, when set, is called after every successful save.
	OnSaved func(SavedLink)
}

// Controller coordinates searches, restores and saves for one session.
// It is safe for concurrent use.
type Controller struct {
	remote    Remote
	log       *slog.Logger
	shareBase string
	onSaved   func(SavedLink)

	mu     sync.Mutex
	active bool
	state  State
	// settled is the last phase a request finished in. A failed restore
	// falls back to it.
	settled Phase
}

// New returns an active controller starting from the default filters.
func New(remote Remote, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		remote:    remote,
		log:       logger.With("session", uuid.NewString()),
		shareBase: opts.ShareBase,
		onSaved:   opts.OnSaved,
		active:    true,
		state: State{
			Filters: filters.Defaults(),
			Results: []types.SearchResult{},
			Phase:   PhaseIdle,
		},
		settled: PhaseIdle,
	}
}

// Close ends the session. Responses arriving afterwards are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Results = slices.Clone(c.state.Results)
	return s
}

// ShareURL returns the share URL of the last successful save, if any.
func (c *Controller) ShareURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ShareURL
}

// Update applies fn to the filters. It does not touch phase or results.
func (c *Controller) Update(fn func(*filters.FilterSet)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state.Filters)
}

// ToggleCategory adds or removes one category from the selection.
func (c *Controller) ToggleCategory(id filters.CategoryID) {
	c.Update(func(f *filters.FilterSet) { f.ToggleCategory(id) })
}

// Start restores the saved search named by entry, which is either a share
// URL carrying the search parameter or a bare handle. An entry URL without
// a handle is skipped.
func (c *Controller) Start(ctx context.Context, entry string) Outcome {
	handle := ParseHandle(entry)
	if handle == "" {
		return OutcomeSkipped
	}
	return c.Restore(ctx, handle)
}

// Submit runs a search with the current filters. A blank query is a no-op.
// Failures are recorded in the state, never returned.
func (c *Controller) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return OutcomeDiscarded
	}
	f := c.state.Filters
	if !f.HasQuery() {
		c.mu.Unlock()
		return OutcomeSkipped
	}
	c.state.HasSearchedOnce = true
	c.state.Phase = PhaseSearching
	c.state.ErrorMessage = ""
	c.state.Epoch++
	epoch := c.state.Epoch
	c.mu.Unlock()

	req := filters.BuildRequest(f)
	results, err := c.remote.Search(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(epoch) {
		c.log.Debug("discarding stale search response", "epoch", epoch, "current", c.state.Epoch)
		return OutcomeDiscarded
	}
	if err != nil {
		c.log.Error("search failed", "query", req.Query, "err", err)
		c.settle(PhaseFailed)
		c.state.ErrorMessage = FailureMessage
		return OutcomeFailed
	}
	c.state.Results = results
	c.settle(PhaseReady)
	c.state.Summary = Summarize(f, len(results))
	return OutcomeApplied
}

// Restore loads the saved search behind handle and applies its filters and
// results together. On any failure the session is left as it was and the
// error is only logged.
func (c *Controller) Restore(ctx context.Context, handle string) Outcome {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return OutcomeDiscarded
	}
	c.state.Phase = PhaseRestoring
	c.state.Epoch++
	epoch := c.state.Epoch
	c.mu.Unlock()

	var decoded savedsearch.Decoded
	rec, err := c.remote.LoadSearch(ctx, handle)
	if err == nil {
		decoded, err = savedsearch.Decode(rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(epoch) {
		c.log.Debug("discarding stale restore", "handle", handle, "epoch", epoch)
		return OutcomeDiscarded
	}
	if err != nil {
		c.log.Error("restore failed", "handle", handle, "err", err)
		c.state.Phase = c.settled
		return OutcomeFailed
	}
	c.state.Filters = decoded.Filters
	c.state.Results = decoded.Results
	c.state.HasSearchedOnce = true
	c.settle(PhaseReady)
	c.state.ErrorMessage = ""
	c.state.Summary = Summarize(decoded.Filters, len(decoded.Results))
	return OutcomeApplied
}

// Save persists the current filters and returns the new handle and share
// URL. A failed save leaves any earlier handle in place.
func (c *Controller) Save(ctx context.Context) (SavedLink, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return SavedLink{}, ErrClosed
	}
	f := c.state.Filters
	c.mu.Unlock()

	req := savedsearch.Encode(f, f.MaxResults)
	resp, err := c.remote.SaveSearch(ctx, req)
	if err != nil {
		c.log.Error("save failed", "query", req.Query, "err", err)
		return SavedLink{}, fmt.Errorf("saving search: %w", err)
	}

	link := SavedLink{Handle: resp.Hash, Request: req, Results: len(resp.Results)}
	if c.shareBase != "" {
		share, err := ShareURL(c.shareBase, resp.Hash)
		if err != nil {
			c.log.Warn("building share url", "err", err)
		} else {
			link.ShareURL = share
		}
	}

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return SavedLink{}, ErrClosed
	}
	c.state.SavedHandle = link.Handle
	c.state.ShareURL = link.ShareURL
	c.mu.Unlock()

	if c.onSaved != nil {
		c.onSaved(link)
	}
	return link, nil
}

// settle moves the session to a phase no request is pending in. Callers
// hold c.mu.
func (c *Controller) settle(p Phase) {
	c.state.Phase = p
	c.settled = p
}

// current reports whether a response for epoch may still be applied.
// Callers hold c.mu.
func (c *Controller) current(epoch uint64) bool {
	return c.active && c.state.Epoch == epoch
}
