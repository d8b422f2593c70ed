package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrMalformedRecord = errors.New("malformed match record")
)

// SourceError is returned when a dataset could not be fetched or decoded.
type SourceError struct {
	Player PlayerKey
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s dataset %q: %v", e.Op, e.Player, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func NewSourceError(player PlayerKey, op string, err error) *SourceError {
	return &SourceError{Player: player, Op: op, Err: err}
}

// ValidationWarning flags a record that is kept in the dataset but excluded
// from division aggregation.
type ValidationWarning struct {
	Index    int
	MatchID  int64
	Division int
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("match %d at index %d: division %d outside %d-%d", w.MatchID, w.Index, w.Division, MinDivision, MaxDivision)
}
