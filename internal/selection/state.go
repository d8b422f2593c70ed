package selection

import (
	"fmt"

	"mmr-history/internal/domain"
)

type Role int

const (
	RolePrimary Role = iota
	RoleComparison
)

func (r Role) Valid() bool {
	return r == RolePrimary || r == RoleComparison
}

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleComparison:
		return "comparison"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// State is immutable; transitions return a new value. Tokens increase
// monotonically per role each time a request for that role is issued or
// invalidated, so responses carrying an older token are stale.
type State struct {
	primary           domain.PlayerKey
	comparisonEnabled bool
	tokens            [2]uint64
}

func Initial() State {
	return State{primary: domain.PlayerA}
}

func (s State) Primary() domain.PlayerKey {
	return s.primary
}

func (s State) ComparisonEnabled() bool {
	return s.comparisonEnabled
}

// Comparison returns the other player while comparison mode is on.
func (s State) Comparison() (domain.PlayerKey, bool) {
	if !s.comparisonEnabled {
		return "", false
	}
	return s.primary.Other(), true
}

// Token returns the latest token issued for role, or 0 for an unknown role.
func (s State) Token(role Role) uint64 {
	if !role.Valid() {
		return 0
	}
	return s.tokens[role]
}

// FetchRequest asks for one player's dataset on behalf of a role.
type FetchRequest struct {
	Role   Role
	Player domain.PlayerKey
	Token  uint64
}

type Plan []FetchRequest

// Required lists the datasets the state needs under the current tokens:
// the primary always, the comparison only when enabled.
func (s State) Required() Plan {
	plan := Plan{{Role: RolePrimary, Player: s.primary, Token: s.tokens[RolePrimary]}}
	if other, ok := s.Comparison(); ok {
		plan = append(plan, FetchRequest{Role: RoleComparison, Player: other, Token: s.tokens[RoleComparison]})
	}
	return plan
}

// Current reports whether req still belongs to the latest request of its role.
func (s State) Current(req FetchRequest) bool {
	if !req.Role.Valid() {
		return false
	}
	return req.Token == s.tokens[req.Role]
}

func (s State) issue(role Role, player domain.PlayerKey) (State, FetchRequest) {
	s.tokens[role]++
	return s, FetchRequest{Role: role, Player: player, Token: s.tokens[role]}
}

type Action interface {
	apply(State) (State, Plan, error)
}

// SelectPrimary makes Player the primary dataset. Selecting the current
// primary changes nothing and issues no requests.
type SelectPrimary struct {
	Player domain.PlayerKey
}

func (a SelectPrimary) apply(s State) (State, Plan, error) {
	if !a.Player.Valid() {
		return s, nil, fmt.Errorf("select primary: %w: %q", domain.ErrUnknownPlayer, a.Player)
	}
	if a.Player == s.primary {
		return s, nil, nil
	}

	s.primary = a.Player
	var plan Plan
	s, req := s.issue(RolePrimary, s.primary)
	plan = append(plan, req)
	if other, ok := s.Comparison(); ok {
		s, req = s.issue(RoleComparison, other)
		plan = append(plan, req)
	}
	return s, plan, nil
}

// ToggleComparison flips comparison mode. Turning it on requests the other
// player's dataset; turning it off invalidates any outstanding comparison
// request.
type ToggleComparison struct{}

func (ToggleComparison) apply(s State) (State, Plan, error) {
	s.comparisonEnabled = !s.comparisonEnabled
	if !s.comparisonEnabled {
		s.tokens[RoleComparison]++
		return s, nil, nil
	}
	s, req := s.issue(RoleComparison, s.primary.Other())
	return s, Plan{req}, nil
}

// Refresh re-issues every required request under new tokens. Primary and
// comparison mode are left untouched.
type Refresh struct{}

func (Refresh) apply(s State) (State, Plan, error) {
	var plan Plan
	s, req := s.issue(RolePrimary, s.primary)
	plan = append(plan, req)
	if other, ok := s.Comparison(); ok {
		s, req = s.issue(RoleComparison, other)
		plan = append(plan, req)
	}
	return s, plan, nil
}

// Reduce is the only way to move between states. The returned plan lists the
// requests newly issued by the transition.
func Reduce(s State, a Action) (State, Plan, error) {
	if a == nil {
		return s, nil, fmt.Errorf("reduce: nil action")
	}
	return a.apply(s)
}
