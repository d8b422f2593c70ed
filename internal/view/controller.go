package view

import (
	"context"
	"errors"
	"sync"

	"mmr-history/internal/chart"
	"mmr-history/internal/derive"
	"mmr-history/internal/domain"
	"mmr-history/internal/selection"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source yields a player's complete, ordered dataset.
type Source interface {
	Fetch(ctx context.Context, player domain.PlayerKey) ([]domain.MatchRecord, error)
}

type slot struct {
	player  domain.PlayerKey
	token   uint64
	status  chart.Status
	records []domain.MatchRecord
	err     error
}

// Controller binds a selection.State to the datasets fetched for it.
type Controller struct {
	source Source
	roster domain.Roster
	format derive.DateFormat
	logger zerolog.Logger

	mu    sync.Mutex
	state selection.State
	slots [2]slot
}

func NewController(source Source, roster domain.Roster, format derive.DateFormat, logger zerolog.Logger) *Controller {
	c := &Controller{
		source: source,
		roster: roster,
		format: format,
		logger: logger,
		state:  selection.Initial(),
	}
	for _, req := range c.state.Required() {
		c.slots[req.Role] = slot{player: req.Player, token: req.Token, status: chart.StatusLoading}
	}
	return c
}

func (c *Controller) State() selection.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start fetches everything the initial state needs.
func (c *Controller) Start(ctx context.Context) error {
	return c.Do(ctx, selection.Refresh{})
}

// Do dispatches action and waits for the fetches it issued.
func (c *Controller) Do(ctx context.Context, action selection.Action) error {
	plan, err := c.Dispatch(action)
	if err != nil {
		return err
	}
	return c.Execute(ctx, plan)
}

// Dispatch applies action and marks the slots of the returned plan as loading.
func (c *Controller) Dispatch(action selection.Action) (selection.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	next, plan, err := selection.Reduce(prev, action)
	if err != nil {
		return nil, err
	}
	c.state = next

	if !next.ComparisonEnabled() {
		c.slots[selection.RoleComparison] = slot{token: next.Token(selection.RoleComparison)}
	}

	// The new primary may already be loaded as the comparison, and vice versa.
	swap := prev.Primary() != next.Primary() && prev.ComparisonEnabled() && next.ComparisonEnabled()
	old := c.slots
	for _, req := range plan {
		s := slot{player: req.Player, token: req.Token, status: chart.StatusLoading}
		if swap {
			if src := old[otherRole(req.Role)]; src.player == req.Player && src.status == chart.StatusReady {
				s.status = chart.StatusReady
				s.records = src.records
			}
		}
		c.slots[req.Role] = s
	}

	c.logger.Debug().
		Str("primary", string(next.Primary())).
		Bool("comparison", next.ComparisonEnabled()).
		Int("requests", len(plan)).
		Msg("selection changed")
	return plan, nil
}

// Apply stores the outcome of req. It returns false, and changes nothing,
// when a newer request for the same role has been issued since.
func (c *Controller) Apply(req selection.FetchRequest, records []domain.MatchRecord, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Current(req) || c.slots[req.Role].player != req.Player {
		event := c.logger.Debug().
			Str("role", req.Role.String()).
			Str("player", string(req.Player)).
			Uint64("token", req.Token)
		if req.Role.Valid() {
			event = event.Uint64("current_token", c.state.Token(req.Role))
		}
		event.Msg("discarding stale dataset")
		return false
	}

	s := slot{player: req.Player, token: req.Token}
	if err != nil {
		s.status = chart.StatusUnavailable
		s.err = err
		c.logger.Warn().Err(err).Str("role", req.Role.String()).Str("player", string(req.Player)).Msg("dataset unavailable")
	} else {
		s.status = chart.StatusReady
		s.records = records
	}
	c.slots[req.Role] = s
	return true
}

// Execute fetches every request of plan concurrently. Fetch errors are kept in
// the slots; only the end of ctx itself is returned, and leaves the slots loading.
func (c *Controller) Execute(ctx context.Context, plan selection.Plan) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, req := range plan {
		g.Go(func() error {
			records, err := c.source.Fetch(gCtx, req.Player)
			if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return ctx.Err()
			}
			if err != nil {
				var srcErr *domain.SourceError
				if !errors.As(err, &srcErr) {
					err = domain.NewSourceError(req.Player, "fetch", err)
				}
			}
			c.Apply(req, records, err)
			return nil
		})
	}
	return g.Wait()
}

// Charts assembles the current chart structures.
func (c *Controller) Charts() chart.Charts {
	c.mu.Lock()
	state := c.state
	slots := c.slots
	c.mu.Unlock()

	in := chart.Input{Primary: c.part(slots[selection.RolePrimary])}
	if state.ComparisonEnabled() {
		p := c.part(slots[selection.RoleComparison])
		in.Comparison = &p
	}
	return chart.Assemble(in)
}

func (c *Controller) part(s slot) chart.Part {
	p := chart.Part{
		Player: domain.Player{Key: s.player, DisplayName: c.roster.DisplayName(s.player)},
		Status: s.status,
		Err:    s.err,
	}
	if s.status == chart.StatusReady {
		p.Series = derive.DeriveSeries(s.records, c.format)
		p.Divisions = derive.AggregateDivisions(s.records)
	}
	return p
}

func otherRole(r selection.Role) selection.Role {
	if r == selection.RolePrimary {
		return selection.RoleComparison
	}
	return selection.RolePrimary
}
