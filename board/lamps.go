package board

import (
	"sync"
	"time"

	"github.com/dasdy/timetable/model"
	"github.com/lucasb-eyer/go-colorful"
)

// Lamps is the visual side of a board: an indexed row of lamps that can each
// be switched to a colour.
type Lamps interface {
	Len() int
	SetLamp(index int, c colorful.Color) error
}

// Target builds the board surface and hands back its lamps.
type Target interface {
	Build(spec model.BoardSpec) (Lamps, error)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(spec model.BoardSpec) (Lamps, error)

func (f TargetFunc) Build(spec model.BoardSpec) (Lamps, error) {
	return f(spec)
}

// Ticker delivers animation steps.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	ticker *time.Ticker
}

func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{ticker: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

// MemoryLamps keeps lamp colours in memory and notifies subscribers of every
// change. It is safe for concurrent use.
type MemoryLamps struct {
	lock        sync.RWMutex
	colors      []colorful.Color
	subscribers map[int]func(model.LampChange)
	nextID      int
}

func NewMemoryLamps(count int, off colorful.Color) *MemoryLamps {
	colors := make([]colorful.Color, count)
	for i := range colors {
		colors[i] = off
	}

	return &MemoryLamps{
		colors:      colors,
		subscribers: make(map[int]func(model.LampChange)),
	}
}

func (m *MemoryLamps) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.colors)
}

func (m *MemoryLamps) SetLamp(index int, c colorful.Color) error {
	m.lock.Lock()
	m.colors[index] = c

	subscribers := make([]func(model.LampChange), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subscribers = append(subscribers, fn)
	}
	m.lock.Unlock()

	change := model.LampChange{Index: index, Color: c.Hex()}
	for _, fn := range subscribers {
		fn(change)
	}

	return nil
}

// Subscribe registers fn for lamp changes. The returned func unsubscribes.
func (m *MemoryLamps) Subscribe(fn func(model.LampChange)) func() {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn

	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()

		delete(m.subscribers, id)
	}
}

// Snapshot returns the colour of every lamp.
func (m *MemoryLamps) Snapshot() []colorful.Color {
	m.lock.RLock()
	defer m.lock.RUnlock()

	result := make([]colorful.Color, len(m.colors))
	copy(result, m.colors)

	return result
}

// Lit lists the lamps currently showing the given colour.
func (m *MemoryLamps) Lit(on colorful.Color) []int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	hex := on.Hex()
	result := make([]int, 0)

	for i, c := range m.colors {
		if c.Hex() == hex {
			result = append(result, i)
		}
	}

	return result
}

// MemoryTarget builds MemoryLamps and keeps the last board it built.
type MemoryTarget struct {
	Lamps *MemoryLamps
}

func (t *MemoryTarget) Build(spec model.BoardSpec) (Lamps, error) {
	if t == nil {
		return nil, ErrInvalidTarget
	}

	t.Lamps = NewMemoryLamps(spec.Lamps(), spec.LampOff)

	return t.Lamps, nil
}
