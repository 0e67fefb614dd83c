package table

import (
	"context"
	"errors"

	"coup-table/internal/game"
)

// MultiRecorder hands every call to each recorder in turn and joins their
// errors. One failing recorder does not starve the others.
type MultiRecorder []Recorder

// JoinRecorders drops nil entries and avoids wrapping a lone recorder.
func JoinRecorders(recorders ...Recorder) Recorder {
	var out MultiRecorder
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (m MultiRecorder) MatchStarted(ctx context.Context, info MatchInfo) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.MatchStarted(ctx, info))
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) HistoryAppended(ctx context.Context, tableID string, stateID int, ev game.HistoryEvent) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.HistoryAppended(ctx, tableID, stateID, ev))
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) MatchFinished(ctx context.Context, tableID string, winner int, stateID int) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.MatchFinished(ctx, tableID, winner, stateID))
	}
	return errors.Join(errs...)
}
