package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dasdy/timetable/model"
)

var ErrCanceled = errors.New("animation canceled")

// Animation is the handle of one running scroll. It ends when the text ran out
// of circles, when another call on the board preempts it, or when a tick fails.
type Animation struct {
	ticker Ticker
	done   chan struct{}
	once   sync.Once
	err    error

	// guarded by the owning Timetable's lock
	circles   int
	interval  time.Duration
	terminate terminateFunc
	transform transformFunc
}

// shiftState is everything the termination check looks at.
type shiftState struct {
	coords      model.Coordinates
	circles     int
	boardLength int
}

// terminateFunc reports whether the animation is over. When the text left the
// board but circles remain, it returns the state re-based for the next circle.
type terminateFunc func(s shiftState) (next shiftState, finished bool)

// transformFunc moves one position by one step.
type transformFunc func(p model.Position) model.Position

func newAnimation(ticker Ticker, circles int, interval time.Duration, terminate terminateFunc, transform transformFunc) *Animation {
	return &Animation{
		ticker:    ticker,
		done:      make(chan struct{}),
		circles:   circles,
		interval:  interval,
		terminate: terminate,
		transform: transform,
	}
}

func (a *Animation) finish(err error) {
	a.once.Do(func() {
		a.err = err
		a.ticker.Stop()
		close(a.done)
	})
}

// Done is closed once the animation has ended.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

// Err is nil while running and after a natural end. It is ErrCanceled when the
// animation was preempted, or the error of the failed tick.
func (a *Animation) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

func (a *Animation) Interval() time.Duration {
	return a.interval
}

// Wait blocks until the animation ends or ctx is done.
func (a *Animation) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
